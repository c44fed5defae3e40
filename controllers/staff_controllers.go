package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/services"
	"github.com/ozclean/cleaning-app/utils"
)

type StaffController struct {
	DB      *gorm.DB
	Service *services.BookingService
}

func NewStaffController(db *gorm.DB, svc *services.BookingService) *StaffController {
	return &StaffController{DB: db, Service: svc}
}

// GetMyJobs lists the bookings assigned to the logged-in staff member.
func (sc *StaffController) GetMyJobs(c *gin.Context) {
	staffID := c.GetUint("user_id")

	query := sc.DB.Where("staff_id = ?", staffID).Order("preferred_date ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Your jobs", bookings)
}

// TransitionJob moves one of the staff member's own bookings forward.
// Completing a job may record the hours worked.
func (sc *StaffController) TransitionJob(c *gin.Context) {
	staffID := c.GetUint("user_id")
	bookingID, _ := strconv.Atoi(c.Param("booking_id"))

	var req struct {
		Status      string   `json:"status" binding:"required"`
		HoursWorked *float64 `json:"hours_worked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := sc.Service.StaffTransition(staffID, uint(bookingID), req.Status, req.HoursWorked)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Job updated", booking)
}

// GetMyDetail returns the staff member's pay rate and running totals.
func (sc *StaffController) GetMyDetail(c *gin.Context) {
	staffID := c.GetUint("user_id")

	var detail models.StaffDetail
	if err := sc.DB.Preload("User").Where("user_id = ?", staffID).First(&detail).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff detail", detail)
}

// GetMyPayroll lists the staff member's own payroll records.
func (sc *StaffController) GetMyPayroll(c *gin.Context) {
	staffID := c.GetUint("user_id")

	var records []models.PayrollRecord
	if err := sc.DB.Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Your payroll records", records)
}
