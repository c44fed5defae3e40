package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/mailer"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/realtime"
	"github.com/ozclean/cleaning-app/utils"
)

var (
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrNotAssigned       = errors.New("booking is not assigned to this staff member")
	ErrNotStaff          = errors.New("user does not have the staff role")
)

// BookingService owns the booking lifecycle: creation, status transitions,
// staff assignment and their side effects (emails, realtime events,
// notification rows).
type BookingService struct {
	DB   *gorm.DB
	Mail *mailer.Dispatcher
}

func NewBookingService(db *gorm.DB, mail *mailer.Dispatcher) *BookingService {
	return &BookingService{DB: db, Mail: mail}
}

// Create inserts a new booking with status pending and sends the booking
// confirmation email to the customer. Email failure never fails creation.
func (bs *BookingService) Create(booking *models.Booking) error {
	booking.Status = models.BookingStatusPending
	booking.StaffID = nil
	if booking.Reference == "" {
		booking.Reference = newBookingReference()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	if err := bs.DB.Create(booking).Error; err != nil {
		return err
	}

	bs.Mail.Send(mailer.TemplateBookingConfirmation, booking.Email, mailer.Fields{
		"name":           booking.Name,
		"reference":      booking.Reference,
		"date":           booking.PreferredDate.Format("Mon, 2 Jan 2006"),
		"address":        booking.Address,
		"estimated_cost": utils.FormatCurrency(booking.EstimatedCost),
	})

	realtime.BroadcastBookingInsert(*booking)
	return nil
}

// AdminSetStatus applies any status change on behalf of an admin. Moving
// to completed stamps the completion time if it is still empty.
func (bs *BookingService) AdminSetStatus(bookingID uint, target string) (*models.Booking, error) {
	if !models.ValidBookingStatus(target) {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	if err := bs.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	booking.Status = target
	if target == models.BookingStatusCompleted && booking.CompletedAt == nil {
		now := time.Now()
		booking.CompletedAt = &now
	}
	booking.UpdatedAt = time.Now()

	if err := bs.DB.Save(&booking).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastBookingUpdate(booking)
	return &booking, nil
}

// StaffTransition moves a booking one step forward in its lifecycle on
// behalf of the assigned staff member. Only the strict order
// pending -> confirmed -> in_progress -> completed is allowed, and only on
// bookings owned by the actor. hoursWorked may accompany the move to
// completed.
func (bs *BookingService) StaffTransition(staffID, bookingID uint, target string, hoursWorked *float64) (*models.Booking, error) {
	if !models.ValidBookingStatus(target) {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	if err := bs.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	if booking.StaffID == nil || *booking.StaffID != staffID {
		return nil, ErrNotAssigned
	}
	if booking.NextStaffStatus() != target {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	switch target {
	case models.BookingStatusConfirmed:
		booking.AcceptedAt = &now
	case models.BookingStatusInProgress:
		booking.StartedAt = &now
	case models.BookingStatusCompleted:
		booking.CompletedAt = &now
		if hoursWorked != nil {
			booking.StaffHoursWorked = *hoursWorked
		}
	}
	booking.Status = target
	booking.UpdatedAt = now

	if err := bs.DB.Save(&booking).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastBookingUpdate(booking)
	return &booking, nil
}

// Assign attaches a staff member to a booking. A pending booking advances
// to confirmed; any other status is left as is. Reassignment only changes
// the notification wording, no history is kept. The work-assignment email
// goes to the customer and names the staff member.
func (bs *BookingService) Assign(bookingID, staffID uint) (*models.Booking, error) {
	var staff models.User
	if err := bs.DB.First(&staff, staffID).Error; err != nil {
		return nil, err
	}
	if staff.Role != models.RoleStaff {
		return nil, ErrNotStaff
	}

	var booking models.Booking
	if err := bs.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	reassignment := booking.StaffID != nil && *booking.StaffID != staffID

	booking.StaffID = &staffID
	if booking.Status == models.BookingStatusPending {
		now := time.Now()
		booking.Status = models.BookingStatusConfirmed
		booking.AcceptedAt = &now
	}
	booking.UpdatedAt = time.Now()

	if err := bs.DB.Save(&booking).Error; err != nil {
		return nil, err
	}

	headline := "Your cleaner has been assigned"
	if reassignment {
		headline = "Your booking has a new cleaner"
	}
	bs.Mail.Send(mailer.TemplateWorkAssignment, booking.Email, mailer.Fields{
		"headline":   headline,
		"name":       booking.Name,
		"staff_name": staff.Name,
		"reference":  booking.Reference,
		"date":       booking.PreferredDate.Format("Mon, 2 Jan 2006"),
	})

	// In-app notification for the staff member's dashboard.
	title := "New job assigned"
	notif := models.Notification{
		UserID:    &staffID,
		Title:     title,
		Message:   fmt.Sprintf("You have been assigned booking %s at %s", booking.Reference, booking.Address),
		CreatedAt: time.Now(),
	}
	if err := bs.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("failed to store assignment notification: %v", err)
	}

	realtime.BroadcastBookingUpdate(booking)
	realtime.BroadcastStaffNotification(staffID, notif.Message)
	return &booking, nil
}

// Unassign clears the staff member from a booking and force-resets the
// status to pending, whatever it was before.
func (bs *BookingService) Unassign(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := bs.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	booking.StaffID = nil
	booking.Status = models.BookingStatusPending
	booking.UpdatedAt = time.Now()

	// Save skips nil associations but keeps zeroed columns via Select.
	if err := bs.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"staff_id":   nil,
			"status":     models.BookingStatusPending,
			"updated_at": booking.UpdatedAt,
		}).Error; err != nil {
		return nil, err
	}

	realtime.BroadcastBookingUpdate(booking)
	return &booking, nil
}

func newBookingReference() string {
	id := uuid.NewString()
	return "BK-" + strings.ToUpper(id[:8])
}
