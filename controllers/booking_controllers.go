package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/realtime"
	"github.com/ozclean/cleaning-app/services"
	"github.com/ozclean/cleaning-app/utils"
)

type BookingController struct {
	DB      *gorm.DB
	Service *services.BookingService
}

func NewBookingController(db *gorm.DB, svc *services.BookingService) *BookingController {
	return &BookingController{DB: db, Service: svc}
}

type bookingRequest struct {
	Name          string    `json:"name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address" binding:"required"`
	Services      []string  `json:"services" binding:"required,min=1"`
	PropertyType  string    `json:"property_type"`
	BookingType   string    `json:"booking_type"`
	Notes         string    `json:"notes"`
	PreferredDate time.Time `json:"preferred_date" binding:"required"`
	EndDate       *time.Time `json:"end_date"`
	EstimatedHours float64  `json:"estimated_hours"`
	EstimatedCost  float64  `json:"estimated_cost"`
}

// CreateBooking accepts a booking from the public form or from a logged-in
// customer. A logged-in customer's id is attached so the booking shows up
// on their dashboard.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.BookingType == "" {
		req.BookingType = models.BookingTypeOneTime
	}

	booking := models.Booking{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Services:       req.Services,
		PropertyType:   req.PropertyType,
		BookingType:    req.BookingType,
		Notes:          req.Notes,
		PreferredDate:  req.PreferredDate,
		EndDate:        req.EndDate,
		EstimatedHours: req.EstimatedHours,
		EstimatedCost:  req.EstimatedCost,
	}

	if userIDInterface, exists := c.Get("user_id"); exists {
		if userID, ok := userIDInterface.(uint); ok {
			booking.CustomerID = &userID
		}
	}

	if err := bc.Service.Create(&booking); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// GetAllBookings lists every booking, newest first. Admin only.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	query := bc.DB.Preload("Staff").Preload("Customer").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// GetMyBookings lists the logged-in customer's own bookings.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := bc.DB.Preload("Staff").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Your bookings", bookings)
}

// GetBookingByID returns one booking with its staff and customer.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.Preload("Staff").Preload("Customer").First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBooking lets an admin edit booking details and estimates. Status
// and staff assignment have their own endpoints.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type updateReq struct {
		Name           *string    `json:"name"`
		Email          *string    `json:"email"`
		Phone          *string    `json:"phone"`
		Address        *string    `json:"address"`
		Services       []string   `json:"services"`
		PropertyType   *string    `json:"property_type"`
		BookingType    *string    `json:"booking_type"`
		Notes          *string    `json:"notes"`
		PreferredDate  *time.Time `json:"preferred_date"`
		EndDate        *time.Time `json:"end_date"`
		EstimatedHours *float64   `json:"estimated_hours"`
		EstimatedCost  *float64   `json:"estimated_cost"`
		ActualHours    *float64   `json:"actual_hours"`
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		booking.Name = *req.Name
	}
	if req.Email != nil {
		booking.Email = *req.Email
	}
	if req.Phone != nil {
		booking.Phone = *req.Phone
	}
	if req.Address != nil {
		booking.Address = *req.Address
	}
	if req.Services != nil {
		booking.Services = req.Services
	}
	if req.PropertyType != nil {
		booking.PropertyType = *req.PropertyType
	}
	if req.BookingType != nil {
		booking.BookingType = *req.BookingType
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if req.PreferredDate != nil {
		booking.PreferredDate = *req.PreferredDate
	}
	if req.EndDate != nil {
		booking.EndDate = req.EndDate
	}
	if req.EstimatedHours != nil {
		booking.EstimatedHours = *req.EstimatedHours
	}
	if req.EstimatedCost != nil {
		booking.EstimatedCost = *req.EstimatedCost
	}
	if req.ActualHours != nil {
		booking.ActualHours = *req.ActualHours
	}
	booking.UpdatedAt = time.Now()

	if err := bc.DB.Save(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastBookingUpdate(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}

// UpdateStatus applies an admin status override.
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.AdminSetStatus(uint(id), req.Status)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// AssignStaff attaches a staff member to a booking.
func (bc *BookingController) AssignStaff(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var req struct {
		StaffID uint `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.Assign(uint(id), req.StaffID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff assigned", booking)
}

// UnassignStaff detaches the staff member and resets the status to
// pending.
func (bc *BookingController) UnassignStaff(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	booking, err := bc.Service.Unassign(uint(id))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff unassigned", booking)
}

// DeleteBooking removes a booking permanently.
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := bc.DB.Delete(&models.Booking{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastBookingDelete(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking deleted", gin.H{"booking_id": id})
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrNotStaff):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotAssigned):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
