package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/controllers"
	"github.com/ozclean/cleaning-app/mailer"
	"github.com/ozclean/cleaning-app/middlewares"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Global per-IP limiter (50 requests per second). Must be attached
	// before the routes are registered or it never runs.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	mail := mailer.Default()
	bookingSvc := services.NewBookingService(db, mail)
	payrollSvc := services.NewPayrollService(db)

	userCtrl := controllers.NewUserController(db)
	bookingCtrl := controllers.NewBookingController(db, bookingSvc)
	staffCtrl := controllers.NewStaffController(db, bookingSvc)
	payrollCtrl := controllers.NewPayrollController(db, payrollSvc)
	enquiryCtrl := controllers.NewEnquiryController(db, mail)
	adminCtrl := controllers.NewAdminController(db)
	notifCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Booking form and contact form work without an account.
	r.POST("/bookings", bookingCtrl.CreateBooking)
	r.POST("/enquiries", enquiryCtrl.CreateEnquiry)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/notifications", notifCtrl.GetMyNotifications)
	auth.PATCH("/notifications/:notif_id/read", notifCtrl.MarkNotificationRead)
	auth.DELETE("/notifications/:notif_id", notifCtrl.DeleteNotification)

	// -- CUSTOMER DASHBOARD --
	customer := auth.Group("/customer")
	customer.Use(middlewares.RequireRole(models.RoleCustomer))
	{
		customer.GET("/bookings", bookingCtrl.GetMyBookings)
		customer.POST("/bookings", bookingCtrl.CreateBooking)
	}

	// -- STAFF DASHBOARD --
	staff := auth.Group("/staff")
	staff.Use(middlewares.RequireRole(models.RoleStaff))
	{
		staff.GET("/jobs", staffCtrl.GetMyJobs)
		staff.POST("/jobs/:booking_id/status", staffCtrl.TransitionJob)
		staff.GET("/detail", staffCtrl.GetMyDetail)
		staff.GET("/payroll", staffCtrl.GetMyPayroll)
	}

	// -- ADMIN DASHBOARD --
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

		bookings := admin.Group("/")
		bookings.Use(middlewares.RequirePermission(db, models.PermManageBookings))
		{
			bookings.GET("/bookings", bookingCtrl.GetAllBookings)
			bookings.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
			bookings.PATCH("/bookings/:booking_id", bookingCtrl.UpdateBooking)
			bookings.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateStatus)
			bookings.POST("/bookings/:booking_id/assign", bookingCtrl.AssignStaff)
			bookings.POST("/bookings/:booking_id/unassign", bookingCtrl.UnassignStaff)
			bookings.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)
		}

		staffMgmt := admin.Group("/")
		staffMgmt.Use(middlewares.RequirePermission(db, models.PermManageStaff))
		{
			staffMgmt.GET("/staff", adminCtrl.GetAllStaff)
			staffMgmt.PATCH("/staff/:staff_id/detail", adminCtrl.UpdateStaffDetail)
		}

		payroll := admin.Group("/")
		payroll.Use(middlewares.RequirePermission(db, models.PermManagePayroll))
		{
			payroll.POST("/bookings/:booking_id/payroll", payrollCtrl.DeriveFromBooking)
			payroll.GET("/payroll", payrollCtrl.GetAllPayroll)
			payroll.GET("/payroll/:payroll_id", payrollCtrl.GetPayrollByID)
			payroll.PATCH("/payroll/:payroll_id/payment", payrollCtrl.UpdatePaymentStatus)
		}

		enquiries := admin.Group("/")
		enquiries.Use(middlewares.RequirePermission(db, models.PermManageEnquiries))
		{
			enquiries.GET("/enquiries", enquiryCtrl.GetAllEnquiries)
			enquiries.GET("/enquiries/:enquiry_id", enquiryCtrl.GetEnquiryByID)
			enquiries.PATCH("/enquiries/:enquiry_id", enquiryCtrl.UpdateEnquiry)
			enquiries.DELETE("/enquiries/:enquiry_id", enquiryCtrl.DeleteEnquiry)
		}

		super := admin.Group("/")
		super.Use(middlewares.RequireSuperAdmin(db))
		{
			super.PATCH("/admins/:admin_id/permissions", adminCtrl.UpdateAdminPermissions)
		}
	}

	// Realtime feed for the dashboards.
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.RealtimeHandler)
	}

	return r
}
