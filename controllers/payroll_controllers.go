package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/services"
	"github.com/ozclean/cleaning-app/utils"
)

type PayrollController struct {
	DB      *gorm.DB
	Service *services.PayrollService
}

func NewPayrollController(db *gorm.DB, svc *services.PayrollService) *PayrollController {
	return &PayrollController{DB: db, Service: svc}
}

// DeriveFromBooking creates a payroll record from a completed booking.
func (pc *PayrollController) DeriveFromBooking(c *gin.Context) {
	bookingID, _ := strconv.Atoi(c.Param("booking_id"))

	var req struct {
		Bonus           float64 `json:"bonus"`
		BonusReason     string  `json:"bonus_reason"`
		TaxPercent      float64 `json:"tax_percent"`
		OtherDeductions float64 `json:"other_deductions"`
		Notes           string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	record, err := pc.Service.DeriveFromBooking(uint(bookingID), services.DeriveOptions{
		Bonus:           req.Bonus,
		BonusReason:     req.BonusReason,
		TaxPercent:      req.TaxPercent,
		OtherDeductions: req.OtherDeductions,
		Notes:           req.Notes,
	})
	if err != nil {
		respondPayrollError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payroll record created", record)
}

// GetAllPayroll lists payroll records, optionally filtered by staff.
func (pc *PayrollController) GetAllPayroll(c *gin.Context) {
	query := pc.DB.Preload("Staff").Order("created_at DESC")

	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if status := c.Query("payment_status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var records []models.PayrollRecord
	if err := query.Find(&records).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payroll records", records)
}

// GetPayrollByID returns one payroll record.
func (pc *PayrollController) GetPayrollByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payroll_id"))

	var record models.PayrollRecord
	if err := pc.DB.Preload("Staff").Preload("Booking").First(&record, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payroll record", record)
}

// UpdatePaymentStatus moves a record between pending, processing and paid.
func (pc *PayrollController) UpdatePaymentStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payroll_id"))

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	record, err := pc.Service.UpdatePaymentStatus(uint(id), req.PaymentStatus)
	if err != nil {
		respondPayrollError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", record)
}

func respondPayrollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrBookingNotEligible), errors.Is(err, services.ErrInvalidPayStatus):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrStaffDetailMissing):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrPayrollExists):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
