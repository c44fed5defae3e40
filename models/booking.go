package models

import (
	"fmt"
	"time"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

const (
	BookingTypeOneTime  = "one-time"
	BookingTypeWeekly   = "weekly"
	BookingTypeMonthly  = "monthly"
	BookingTypeContract = "contract"
)

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"type:varchar(40);uniqueIndex" json:"reference"`

	// Customer-supplied details. CustomerID is set when the booking was
	// created from a logged-in customer account.
	CustomerID   *uint    `gorm:"index" json:"customer_id,omitempty"`
	Customer     *User    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Name         string   `gorm:"type:varchar(255);not null" json:"name"`
	Email        string   `gorm:"type:varchar(255);not null" json:"email"`
	Phone        string   `gorm:"type:varchar(30)" json:"phone"`
	Address      string   `gorm:"type:varchar(500);not null" json:"address"`
	Services     []string `gorm:"serializer:json" json:"services"`
	PropertyType string   `gorm:"type:varchar(50)" json:"property_type"`
	BookingType  string   `gorm:"type:varchar(20);not null;default:'one-time'" json:"booking_type"`
	Notes        string   `gorm:"type:text" json:"notes"`

	PreferredDate time.Time  `gorm:"not null" json:"preferred_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`

	Status  string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	StaffID *uint  `gorm:"index" json:"staff_id,omitempty"`
	Staff   *User  `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	EstimatedHours   float64 `gorm:"type:decimal(10,2);default:0.00" json:"estimated_hours"`
	EstimatedCost    float64 `gorm:"type:decimal(10,2);default:0.00" json:"estimated_cost"`
	ActualHours      float64 `gorm:"type:decimal(10,2);default:0.00" json:"actual_hours"`
	ActualCost       float64 `gorm:"type:decimal(10,2);default:0.00" json:"actual_cost"`
	StaffHoursWorked float64 `gorm:"type:decimal(10,2);default:0.00" json:"staff_hours_worked"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// NextStaffStatus returns the only status a staff member may move this
// booking to. Empty string means no forward transition is available.
func (b *Booking) NextStaffStatus() string {
	switch b.Status {
	case BookingStatusPending:
		return BookingStatusConfirmed
	case BookingStatusConfirmed:
		return BookingStatusInProgress
	case BookingStatusInProgress:
		return BookingStatusCompleted
	}
	return ""
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// PayrollEligible reports whether a payroll record may be derived from
// this booking: it must be completed and have a staff member attached.
func (b *Booking) PayrollEligible() bool {
	return b.Status == BookingStatusCompleted && b.StaffID != nil
}

// PayrollMarker is the text marker embedded in payroll notes linking the
// record back to its booking. Kept alongside the booking_id column for
// records created before the column existed.
func (b *Booking) PayrollMarker() string {
	return fmt.Sprintf("[booking:%d]", b.ID)
}

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}
