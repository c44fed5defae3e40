package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/mailer"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/realtime"
	"github.com/ozclean/cleaning-app/utils"
)

type EnquiryController struct {
	DB   *gorm.DB
	Mail *mailer.Dispatcher
}

func NewEnquiryController(db *gorm.DB, mail *mailer.Dispatcher) *EnquiryController {
	return &EnquiryController{DB: db, Mail: mail}
}

// CreateEnquiry accepts a contact-form submission and sends the enquiry
// confirmation email. Email failure never fails the submission.
func (ec *EnquiryController) CreateEnquiry(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	enquiry := models.Enquiry{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.EnquiryStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := ec.DB.Create(&enquiry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ec.Mail.Send(mailer.TemplateEnquiryConfirmation, enquiry.Email, mailer.Fields{
		"name":    enquiry.Name,
		"subject": enquiry.Subject,
	})

	realtime.BroadcastEnquiryNew(enquiry)
	utils.RespondJSON(c, http.StatusCreated, "Enquiry received", gin.H{"enquiry_id": enquiry.ID})
}

// GetAllEnquiries lists enquiries for the admin dashboard.
func (ec *EnquiryController) GetAllEnquiries(c *gin.Context) {
	query := ec.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var enquiries []models.Enquiry
	if err := query.Find(&enquiries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of enquiries", enquiries)
}

// GetEnquiryByID returns one enquiry.
func (ec *EnquiryController) GetEnquiryByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("enquiry_id"))

	var enquiry models.Enquiry
	if err := ec.DB.First(&enquiry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Enquiry detail", enquiry)
}

// UpdateEnquiry changes the lifecycle status and internal notes.
func (ec *EnquiryController) UpdateEnquiry(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("enquiry_id"))

	var enquiry models.Enquiry
	if err := ec.DB.First(&enquiry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Status        *string `json:"status"`
		InternalNotes *string `json:"internal_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Status != nil {
		if !models.ValidEnquiryStatus(*req.Status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid enquiry status"))
			return
		}
		enquiry.Status = *req.Status
	}
	if req.InternalNotes != nil {
		enquiry.InternalNotes = *req.InternalNotes
	}
	enquiry.UpdatedAt = time.Now()

	if err := ec.DB.Save(&enquiry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Enquiry updated", enquiry)
}

// DeleteEnquiry removes an enquiry permanently.
func (ec *EnquiryController) DeleteEnquiry(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("enquiry_id"))

	if err := ec.DB.Delete(&models.Enquiry{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Enquiry deleted", gin.H{"enquiry_id": id})
}
