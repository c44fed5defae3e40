package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/router"
	"github.com/ozclean/cleaning-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 0. Seed users, login each role -> tokens
// 1. Customer creates a booking (pending)
// 2. Admin without can_manage_bookings is refused before any write
// 3. Super admin assigns staff (pending -> confirmed)
// 4. Staff runs the job: in_progress -> completed with hours
// 5. Super admin derives payroll, amounts checked
// 6. Second derivation is refused (409)
// 7. Record marked paid, staff sees it on their dashboard
// 8. Super admin grants the limited admin payroll access
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	superToken := loginAs(t, r, "super@ozclean.com.au")
	limitedToken := loginAs(t, r, "limited@ozclean.com.au")
	staffToken := loginAs(t, r, "cleaner@ozclean.com.au")
	customerToken := loginAs(t, r, "customer@example.com")

	bookingID := createBookingAsCustomer(t, r, customerToken)

	refuseAssignWithoutPermission(t, r, db, limitedToken, bookingID)
	assignStaffAsSuperAdmin(t, r, superToken, bookingID)
	runJobAsStaff(t, r, staffToken, bookingID)

	payrollID := derivePayroll(t, r, superToken, bookingID)
	deriveAgainConflicts(t, r, superToken, bookingID)
	markPaid(t, r, superToken, payrollID)
	checkStaffPayrollDashboard(t, r, staffToken, payrollID)

	grantPayrollPermission(t, r, db, superToken, limitedToken)
}

// TestGlobalRateLimiter checks the per-IP limiter is attached before the
// routes, so it actually runs: the 51st request inside one window is
// refused.
func TestGlobalRateLimiter(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	limited := false
	for i := 0; i < 51; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		if w.Code != http.StatusOK {
			t.Fatalf("ping %d: unexpected code %d", i, w.Code)
		}
	}
	if !limited {
		t.Fatal("51 requests in one window were all accepted")
	}
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.StaffDetail{},
		&models.AdminDetail{},
		&models.Booking{},
		&models.PayrollRecord{},
		&models.Notification{},
		&models.Enquiry{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Seed one user per role straight into the DB; the strict rate limiter
	// on /register leaves no headroom for four registrations plus logins.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)

	super := models.User{Name: "Super Admin", Email: "super@ozclean.com.au", Password: string(hashed), Role: models.RoleAdmin}
	db.Create(&super)
	db.Create(&models.AdminDetail{UserID: super.ID, IsSuperAdmin: true})

	limited := models.User{Name: "Limited Admin", Email: "limited@ozclean.com.au", Password: string(hashed), Role: models.RoleAdmin}
	db.Create(&limited)
	db.Create(&models.AdminDetail{UserID: limited.ID})

	staff := models.User{Name: "Mick Cleaner", Email: "cleaner@ozclean.com.au", Password: string(hashed), Role: models.RoleStaff}
	db.Create(&staff)
	db.Create(&models.StaffDetail{UserID: staff.ID, HourlyRate: 40})

	customer := models.User{Name: "Jane Customer", Email: "customer@example.com", Password: string(hashed), Role: models.RoleCustomer}
	db.Create(&customer)

	return db
}

func loginAs(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("loginAs %s: code=%d, body=%s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginAs %s: no token in %s", email, w.Body.String())
	}
	return resp.Data.Token
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBookingAsCustomer(t *testing.T, r *gin.Engine, token string) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/customer/bookings", token, map[string]interface{}{
		"name":           "Jane Customer",
		"email":          "customer@example.com",
		"address":        "12 Beach Rd, Sydney NSW 2026",
		"services":       []string{"end-of-lease", "carpet-steam"},
		"preferred_date": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"estimated_cost": 350.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createBooking: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != models.BookingStatusPending {
		t.Fatalf("createBooking: expected status pending, got %s", resp.Data.Status)
	}
	return resp.Data.ID
}

// refuseAssignWithoutPermission checks the permission gate fires before
// the handler: the booking must be untouched afterwards.
func refuseAssignWithoutPermission(t *testing.T, r *gin.Engine, db *gorm.DB, token string, bookingID uint) {
	t.Helper()
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/admin/bookings/%d/assign", bookingID), token, map[string]interface{}{
		"staff_id": 3,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("refuseAssign: expected 403, got %d, body=%s", w.Code, w.Body.String())
	}

	var booking models.Booking
	db.First(&booking, bookingID)
	if booking.StaffID != nil || booking.Status != models.BookingStatusPending {
		t.Fatalf("refuseAssign: booking was modified despite 403: staff_id=%v status=%s", booking.StaffID, booking.Status)
	}
}

func assignStaffAsSuperAdmin(t *testing.T, r *gin.Engine, token string, bookingID uint) {
	t.Helper()
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/admin/bookings/%d/assign", bookingID), token, map[string]interface{}{
		"staff_id": 3, // seeded staff user
	})
	if w.Code != http.StatusOK {
		t.Fatalf("assignStaff: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Status  string `json:"status"`
			StaffID *uint  `json:"staff_id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != models.BookingStatusConfirmed {
		t.Fatalf("assignStaff: expected confirmed, got %s", resp.Data.Status)
	}
}

func runJobAsStaff(t *testing.T, r *gin.Engine, token string, bookingID uint) {
	t.Helper()
	path := fmt.Sprintf("/staff/jobs/%d/status", bookingID)

	w := doJSON(r, http.MethodPost, path, token, map[string]interface{}{
		"status": models.BookingStatusInProgress,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("runJob start: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	// Jumping back to in_progress is out of order.
	w = doJSON(r, http.MethodPost, path, token, map[string]interface{}{
		"status": models.BookingStatusInProgress,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("runJob repeat: expected 409, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, path, token, map[string]interface{}{
		"status":       models.BookingStatusCompleted,
		"hours_worked": 8.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("runJob complete: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func derivePayroll(t *testing.T, r *gin.Engine, token string, bookingID uint) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/admin/bookings/%d/payroll", bookingID), token, map[string]interface{}{
		"bonus":       20.0,
		"tax_percent": 20.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("derivePayroll: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID             uint    `json:"id"`
			GrossPay       float64 `json:"gross_pay"`
			TaxWithheld    float64 `json:"tax_withheld"`
			Superannuation float64 `json:"superannuation"`
			NetPay         float64 `json:"net_pay"`
			PaymentStatus  string  `json:"payment_status"`
			BookingID      *uint   `json:"booking_id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	// 8h x $40 + $20 bonus = $340 gross, 20% tax = $68,
	// super 11.5% = $39.10 reported on top, net = gross - tax = $272.
	if resp.Data.GrossPay != 340 {
		t.Fatalf("derivePayroll: gross=%v, want 340", resp.Data.GrossPay)
	}
	if resp.Data.TaxWithheld != 68 {
		t.Fatalf("derivePayroll: tax=%v, want 68", resp.Data.TaxWithheld)
	}
	if resp.Data.Superannuation != 39.1 {
		t.Fatalf("derivePayroll: super=%v, want 39.1", resp.Data.Superannuation)
	}
	if resp.Data.NetPay != 272 {
		t.Fatalf("derivePayroll: net=%v, want 272", resp.Data.NetPay)
	}
	if resp.Data.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("derivePayroll: payment_status=%s, want pending", resp.Data.PaymentStatus)
	}
	if resp.Data.BookingID == nil || *resp.Data.BookingID != bookingID {
		t.Fatalf("derivePayroll: booking_id not linked back to booking %d", bookingID)
	}
	return resp.Data.ID
}

func deriveAgainConflicts(t *testing.T, r *gin.Engine, token string, bookingID uint) {
	t.Helper()
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/admin/bookings/%d/payroll", bookingID), token, map[string]interface{}{
		"tax_percent": 20.0,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("deriveAgain: expected 409, got %d, body=%s", w.Code, w.Body.String())
	}
}

func markPaid(t *testing.T, r *gin.Engine, token string, payrollID uint) {
	t.Helper()
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/admin/payroll/%d/payment", payrollID), token, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("markPaid: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			PaymentStatus string  `json:"payment_status"`
			PaymentDate   *string `json:"payment_date"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("markPaid: status=%s, want paid", resp.Data.PaymentStatus)
	}
	if resp.Data.PaymentDate == nil {
		t.Fatalf("markPaid: payment_date not stamped")
	}
}

func checkStaffPayrollDashboard(t *testing.T, r *gin.Engine, token string, payrollID uint) {
	t.Helper()
	w := doJSON(r, http.MethodGet, "/staff/payroll", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("staffPayroll: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 1 || resp.Data[0].ID != payrollID {
		t.Fatalf("staffPayroll: expected record %d, got %s", payrollID, w.Body.String())
	}
}

func grantPayrollPermission(t *testing.T, r *gin.Engine, db *gorm.DB, superToken, limitedToken string) {
	t.Helper()

	// The limited admin cannot reach payroll yet.
	w := doJSON(r, http.MethodGet, "/admin/payroll", limitedToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("grantPermission: expected 403 before grant, got %d", w.Code)
	}

	// Only a super admin may flip the flags; the limited admin may not
	// grant permissions to themselves.
	w = doJSON(r, http.MethodPatch, "/admin/admins/2/permissions", limitedToken, map[string]interface{}{
		"can_manage_payroll": true,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("grantPermission: expected 403 for non-super admin, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPatch, "/admin/admins/2/permissions", superToken, map[string]interface{}{
		"can_manage_payroll": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("grantPermission: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/admin/payroll", limitedToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("grantPermission: expected 200 after grant, got %d, body=%s", w.Code, w.Body.String())
	}

	var detail models.AdminDetail
	db.Where("user_id = ?", 2).First(&detail)
	if !detail.CanManagePayroll || detail.IsSuperAdmin {
		t.Fatalf("grantPermission: unexpected flags: %+v", detail)
	}
}
