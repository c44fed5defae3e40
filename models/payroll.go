package models

import "time"

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusPaid       = "paid"
)

// PayrollRecord is one pay event for a staff member. Apart from the
// payment status/date it is immutable once created.
type PayrollRecord struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index;not null" json:"staff_id"`
	Staff   User `gorm:"foreignKey:StaffID;references:ID" json:"staff"`

	// BookingID links the record to the booking it was derived from.
	// Older records carry only the [booking:<id>] marker in Notes.
	BookingID *uint    `gorm:"index" json:"booking_id,omitempty"`
	Booking   *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`

	PayPeriodStart time.Time `gorm:"not null" json:"pay_period_start"`
	PayPeriodEnd   time.Time `gorm:"not null" json:"pay_period_end"`

	HoursWorked     float64 `gorm:"type:decimal(10,2);not null" json:"hours_worked"`
	HourlyRate      float64 `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
	GrossPay        float64 `gorm:"type:decimal(12,2);not null" json:"gross_pay"`
	TaxWithheld     float64 `gorm:"type:decimal(12,2);not null" json:"tax_withheld"`
	Superannuation  float64 `gorm:"type:decimal(12,2);not null" json:"superannuation"`
	NetPay          float64 `gorm:"type:decimal(12,2);not null" json:"net_pay"`
	Bonus           float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"bonus"`
	BonusReason     string  `gorm:"type:varchar(255)" json:"bonus_reason"`
	OtherDeductions float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"other_deductions"`

	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusPaid:
		return true
	}
	return false
}
