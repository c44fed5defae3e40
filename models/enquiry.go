package models

import "time"

const (
	EnquiryStatusNew       = "new"
	EnquiryStatusContacted = "contacted"
	EnquiryStatusConverted = "converted"
	EnquiryStatusClosed    = "closed"
)

// Enquiry is a contact-form submission. It has its own lifecycle and no
// link to bookings.
type Enquiry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Email         string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone         string    `gorm:"type:varchar(30)" json:"phone"`
	Subject       string    `gorm:"type:varchar(255)" json:"subject"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Status        string    `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	InternalNotes string    `gorm:"type:text" json:"internal_notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Enquiry) TableName() string {
	return "cms_enquiries"
}

func ValidEnquiryStatus(s string) bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusContacted, EnquiryStatusConverted, EnquiryStatusClosed:
		return true
	}
	return false
}
