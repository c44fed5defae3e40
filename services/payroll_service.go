package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/realtime"
)

var (
	ErrBookingNotEligible = errors.New("booking must be completed and have a staff member assigned")
	ErrStaffDetailMissing = errors.New("no staff detail record for the assigned staff member")
	ErrPayrollExists      = errors.New("payroll has already been created for this booking")
	ErrInvalidPayStatus   = errors.New("invalid payment status")
)

// PayrollService derives payroll records from completed bookings and
// manages their payment status.
type PayrollService struct {
	DB *gorm.DB
}

func NewPayrollService(db *gorm.DB) *PayrollService {
	return &PayrollService{DB: db}
}

// DeriveOptions are the admin-supplied inputs for one derivation.
type DeriveOptions struct {
	Bonus           float64
	BonusReason     string
	TaxPercent      float64
	OtherDeductions float64
	Notes           string
}

// HasPayrollForBooking reports whether a payroll record was already derived
// from the booking, either through the booking_id column or through the
// legacy notes marker.
func (ps *PayrollService) HasPayrollForBooking(booking *models.Booking) (bool, error) {
	var count int64
	err := ps.DB.Model(&models.PayrollRecord{}).
		Where("booking_id = ? OR notes LIKE ?", booking.ID, "%"+booking.PayrollMarker()+"%").
		Count(&count).Error
	return count > 0, err
}

// DeriveFromBooking creates one payroll record from a completed booking,
// increments the staff member's running totals and writes the gross pay
// back onto the booking as its actual cost. The three writes run in a
// single transaction.
func (ps *PayrollService) DeriveFromBooking(bookingID uint, opts DeriveOptions) (*models.PayrollRecord, error) {
	var booking models.Booking
	if err := ps.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	if !booking.PayrollEligible() {
		return nil, ErrBookingNotEligible
	}

	var detail models.StaffDetail
	if err := ps.DB.Where("user_id = ?", *booking.StaffID).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffDetailMissing
		}
		return nil, err
	}

	exists, err := ps.HasPayrollForBooking(&booking)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPayrollExists
	}

	hours := booking.StaffHoursWorked
	pay := CalculatePay(PayInput{
		Hours:           hours,
		Rate:            detail.HourlyRate,
		Bonus:           opts.Bonus,
		TaxPercent:      opts.TaxPercent,
		OtherDeductions: opts.OtherDeductions,
	})

	periodStart := booking.CreatedAt
	if booking.StartedAt != nil {
		periodStart = *booking.StartedAt
	}
	periodEnd := time.Now()
	if booking.CompletedAt != nil {
		periodEnd = *booking.CompletedAt
	}

	notes := booking.PayrollMarker()
	if opts.Notes != "" {
		notes = fmt.Sprintf("%s %s", notes, opts.Notes)
	}

	record := models.PayrollRecord{
		StaffID:         *booking.StaffID,
		BookingID:       &booking.ID,
		PayPeriodStart:  periodStart,
		PayPeriodEnd:    periodEnd,
		HoursWorked:     hours,
		HourlyRate:      detail.HourlyRate,
		GrossPay:        pay.Gross,
		TaxWithheld:     pay.Tax,
		Superannuation:  pay.Super,
		NetPay:          pay.Net,
		Bonus:           opts.Bonus,
		BonusReason:     opts.BonusReason,
		OtherDeductions: opts.OtherDeductions,
		PaymentStatus:   models.PaymentStatusPending,
		Notes:           notes,
	}

	err = ps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		// Running totals accumulate, they are never recomputed.
		if err := tx.Model(&models.StaffDetail{}).Where("id = ?", detail.ID).
			Updates(map[string]interface{}{
				"total_hours_worked": gorm.Expr("total_hours_worked + ?", hours),
				"total_earnings":     gorm.Expr("total_earnings + ?", pay.Gross),
				"tasks_completed":    gorm.Expr("tasks_completed + 1"),
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("actual_cost", pay.Gross).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.ActualCost = pay.Gross
	realtime.BroadcastBookingUpdate(booking)
	return &record, nil
}

// UpdatePaymentStatus moves a payroll record between pending, processing
// and paid. Everything else on the record stays immutable after creation.
func (ps *PayrollService) UpdatePaymentStatus(recordID uint, status string) (*models.PayrollRecord, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, ErrInvalidPayStatus
	}

	var record models.PayrollRecord
	if err := ps.DB.First(&record, recordID).Error; err != nil {
		return nil, err
	}

	record.PaymentStatus = status
	if status == models.PaymentStatusPaid && record.PaymentDate == nil {
		now := time.Now()
		record.PaymentDate = &now
	}

	if err := ps.DB.Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
