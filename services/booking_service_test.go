package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/mailer"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/utils"
)

type recordingSender struct {
	sent chan string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan string, 10)}
}

func (r *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	r.sent <- subject
	return nil
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.StaffDetail{},
		&models.Booking{},
		&models.PayrollRecord{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestBookingService(t *testing.T, db *gorm.DB) (*BookingService, *recordingSender) {
	t.Helper()
	sender := newRecordingSender()
	dispatcher := mailer.NewDispatcher(sender)
	t.Cleanup(dispatcher.Stop)
	return NewBookingService(db, dispatcher), sender
}

func seedStaff(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	staff := models.User{Name: name, Email: name + "@ozclean.com.au", Password: "x", Role: models.RoleStaff}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to seed staff: %v", err)
	}
	db.Create(&models.StaffDetail{UserID: staff.ID, HourlyRate: 30})
	return staff
}

func seedBooking(t *testing.T, db *gorm.DB, status string, staffID *uint) models.Booking {
	t.Helper()
	booking := models.Booking{
		Reference:     "BK-TEST" + status,
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Address:       "12 Beach Rd, Sydney",
		Services:      []string{"deep-clean"},
		BookingType:   models.BookingTypeOneTime,
		PreferredDate: time.Now().Add(48 * time.Hour),
		Status:        status,
		StaffID:       staffID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}

func TestCreateBooking_StartsPendingAndSendsConfirmation(t *testing.T) {
	db := setupServiceDB(t)
	svc, sender := newTestBookingService(t, db)

	booking := models.Booking{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Address:       "12 Beach Rd, Sydney",
		Services:      []string{"windows"},
		PreferredDate: time.Now().Add(24 * time.Hour),
		Status:        models.BookingStatusConfirmed, // must be overridden
	}
	err := svc.Create(&booking)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NotEmpty(t, booking.Reference)
	assert.Nil(t, booking.StaffID)

	select {
	case subject := <-sender.sent:
		assert.Contains(t, subject, "booking")
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was never dispatched")
	}
}

func TestAssign_PendingAdvancesToConfirmed(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusPending, nil)

	updated, err := svc.Assign(booking.ID, staff.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.StaffID)
	assert.Equal(t, staff.ID, *updated.StaffID)
	assert.NotNil(t, updated.AcceptedAt)

	// staff_id non-null implies status is never pending after assignment
	var stored models.Booking
	db.First(&stored, booking.ID)
	assert.NotEqual(t, models.BookingStatusPending, stored.Status)
}

func TestAssign_NonPendingKeepsStatus(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusInProgress, nil)

	updated, err := svc.Assign(booking.ID, staff.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, updated.Status)
}

func TestAssign_RejectsNonStaffUser(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	customer := models.User{Name: "cust", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)
	booking := seedBooking(t, db, models.BookingStatusPending, nil)

	_, err := svc.Assign(booking.ID, customer.ID)
	assert.ErrorIs(t, err, ErrNotStaff)
}

func TestAssign_CreatesStaffNotification(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusPending, nil)

	_, err := svc.Assign(booking.ID, staff.ID)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", staff.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUnassign_ResetsToPendingFromAnyStatus(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")

	for _, status := range []string{
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
	} {
		booking := seedBooking(t, db, status, &staff.ID)

		updated, err := svc.Unassign(booking.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, updated.Status)
		assert.Nil(t, updated.StaffID)

		var stored models.Booking
		db.First(&stored, booking.ID)
		assert.Equal(t, models.BookingStatusPending, stored.Status)
		assert.Nil(t, stored.StaffID)

		db.Delete(&models.Booking{}, booking.ID)
	}
}

func TestStaffTransition_ForwardChain(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusPending, &staff.ID)

	b, err := svc.StaffTransition(staff.ID, booking.ID, models.BookingStatusConfirmed, nil)
	assert.NoError(t, err)
	assert.NotNil(t, b.AcceptedAt)

	b, err = svc.StaffTransition(staff.ID, booking.ID, models.BookingStatusInProgress, nil)
	assert.NoError(t, err)
	assert.NotNil(t, b.StartedAt)

	hours := 3.5
	b, err = svc.StaffTransition(staff.ID, booking.ID, models.BookingStatusCompleted, &hours)
	assert.NoError(t, err)
	assert.NotNil(t, b.CompletedAt)
	assert.Equal(t, 3.5, b.StaffHoursWorked)
}

func TestStaffTransition_OutOfOrderRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusPending, &staff.ID)

	_, err := svc.StaffTransition(staff.ID, booking.ID, models.BookingStatusInProgress, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var stored models.Booking
	db.First(&stored, booking.ID)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestStaffTransition_WrongOwnerRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	owner := seedStaff(t, db, "mick")
	intruder := seedStaff(t, db, "jo")
	booking := seedBooking(t, db, models.BookingStatusConfirmed, &owner.ID)

	_, err := svc.StaffTransition(intruder.ID, booking.ID, models.BookingStatusInProgress, nil)
	assert.ErrorIs(t, err, ErrNotAssigned)

	var stored models.Booking
	db.First(&stored, booking.ID)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
}

func TestStaffTransition_UnassignedBookingRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	staff := seedStaff(t, db, "mick")
	booking := seedBooking(t, db, models.BookingStatusPending, nil)

	_, err := svc.StaffTransition(staff.ID, booking.ID, models.BookingStatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestAdminSetStatus_AnyTransitionAllowed(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	booking := seedBooking(t, db, models.BookingStatusCompleted, nil)

	// Backwards move is fine for admins.
	updated, err := svc.AdminSetStatus(booking.ID, models.BookingStatusPending)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, updated.Status)

	// Moving to completed stamps the completion time if absent.
	updated, err = svc.AdminSetStatus(booking.ID, models.BookingStatusCompleted)
	assert.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)
}

func TestAdminSetStatus_InvalidStatusRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newTestBookingService(t, db)
	booking := seedBooking(t, db, models.BookingStatusPending, nil)

	_, err := svc.AdminSetStatus(booking.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
