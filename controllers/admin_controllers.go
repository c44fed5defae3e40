package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats aggregates booking, revenue, payroll and enquiry
// numbers for the admin dashboard.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalBookings int64   `json:"total_bookings"`
		TodayBookings int64   `json:"today_bookings"`
		TotalRevenue  float64 `json:"total_revenue"`
		PipelineValue float64 `json:"pipeline_value"`
		BookingStats  struct {
			Pending    int64 `json:"pending"`
			Confirmed  int64 `json:"confirmed"`
			InProgress int64 `json:"in_progress"`
			Completed  int64 `json:"completed"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"booking_stats"`
		PayrollStats struct {
			Records    int64   `json:"records"`
			TotalGross float64 `json:"total_gross"`
			TotalNet   float64 `json:"total_net"`
			TotalSuper float64 `json:"total_super"`
			Unpaid     int64   `json:"unpaid"`
		} `json:"payroll_stats"`
		StaffCount   int64 `json:"staff_count"`
		EnquiryStats struct {
			New       int64 `json:"new"`
			Contacted int64 `json:"contacted"`
			Converted int64 `json:"converted"`
			Closed    int64 `json:"closed"`
		} `json:"enquiry_stats"`
	}

	ac.DB.Model(&models.Booking{}).Count(&stats.TotalBookings)
	ac.DB.Model(&models.Booking{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayBookings)

	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&stats.BookingStats.Pending)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirmed).Count(&stats.BookingStats.Confirmed)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusInProgress).Count(&stats.BookingStats.InProgress)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&stats.BookingStats.Completed)
	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&stats.BookingStats.Cancelled)

	ac.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).
		Select("COALESCE(SUM(actual_cost), 0)").Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Booking{}).Where("status IN ?", []string{
		models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusInProgress,
	}).Select("COALESCE(SUM(estimated_cost), 0)").Scan(&stats.PipelineValue)

	ac.DB.Model(&models.PayrollRecord{}).Count(&stats.PayrollStats.Records)
	ac.DB.Model(&models.PayrollRecord{}).Select("COALESCE(SUM(gross_pay), 0)").Scan(&stats.PayrollStats.TotalGross)
	ac.DB.Model(&models.PayrollRecord{}).Select("COALESCE(SUM(net_pay), 0)").Scan(&stats.PayrollStats.TotalNet)
	ac.DB.Model(&models.PayrollRecord{}).Select("COALESCE(SUM(superannuation), 0)").Scan(&stats.PayrollStats.TotalSuper)
	ac.DB.Model(&models.PayrollRecord{}).Where("payment_status <> ?", models.PaymentStatusPaid).Count(&stats.PayrollStats.Unpaid)

	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleStaff).Count(&stats.StaffCount)

	ac.DB.Model(&models.Enquiry{}).Where("status = ?", models.EnquiryStatusNew).Count(&stats.EnquiryStats.New)
	ac.DB.Model(&models.Enquiry{}).Where("status = ?", models.EnquiryStatusContacted).Count(&stats.EnquiryStats.Contacted)
	ac.DB.Model(&models.Enquiry{}).Where("status = ?", models.EnquiryStatusConverted).Count(&stats.EnquiryStats.Converted)
	ac.DB.Model(&models.Enquiry{}).Where("status = ?", models.EnquiryStatusClosed).Count(&stats.EnquiryStats.Closed)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetAllStaff lists staff users with their detail rows, for the
// assignment UI and staff management screens.
func (ac *AdminController) GetAllStaff(c *gin.Context) {
	var details []models.StaffDetail
	if err := ac.DB.Preload("User").Find(&details).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of staff", details)
}

// UpdateStaffDetail sets a staff member's hourly rate or rating. The
// cumulative totals are only ever written by payroll derivation.
func (ac *AdminController) UpdateStaffDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("staff_id"))

	var detail models.StaffDetail
	if err := ac.DB.Where("user_id = ?", id).First(&detail).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		HourlyRate    *float64 `json:"hourly_rate"`
		AverageRating *float64 `json:"average_rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.HourlyRate != nil {
		detail.HourlyRate = *req.HourlyRate
	}
	if req.AverageRating != nil {
		detail.AverageRating = *req.AverageRating
	}

	if err := ac.DB.Save(&detail).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff detail updated", detail)
}

// UpdateAdminPermissions grants or revokes another admin's permission
// flags. Only reachable by a super admin (router-level check).
func (ac *AdminController) UpdateAdminPermissions(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("admin_id"))

	var detail models.AdminDetail
	if err := ac.DB.Where("user_id = ?", id).First(&detail).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CanManageBookings  *bool `json:"can_manage_bookings"`
		CanManageStaff     *bool `json:"can_manage_staff"`
		CanManagePayroll   *bool `json:"can_manage_payroll"`
		CanManageEnquiries *bool `json:"can_manage_enquiries"`
		IsSuperAdmin       *bool `json:"is_super_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CanManageBookings != nil {
		detail.CanManageBookings = *req.CanManageBookings
	}
	if req.CanManageStaff != nil {
		detail.CanManageStaff = *req.CanManageStaff
	}
	if req.CanManagePayroll != nil {
		detail.CanManagePayroll = *req.CanManagePayroll
	}
	if req.CanManageEnquiries != nil {
		detail.CanManageEnquiries = *req.CanManageEnquiries
	}
	if req.IsSuperAdmin != nil {
		detail.IsSuperAdmin = *req.IsSuperAdmin
	}

	if err := ac.DB.Save(&detail).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Admin permissions updated", detail)
}
