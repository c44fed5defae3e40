package models

import "time"

// Permission names an admin capability. Permissions are independent
// boolean flags per admin, not a role hierarchy.
type Permission string

const (
	PermManageBookings  Permission = "can_manage_bookings"
	PermManageStaff     Permission = "can_manage_staff"
	PermManagePayroll   Permission = "can_manage_payroll"
	PermManageEnquiries Permission = "can_manage_enquiries"
)

type AdminDetail struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`

	CanManageBookings  bool `gorm:"not null;default:false" json:"can_manage_bookings"`
	CanManageStaff     bool `gorm:"not null;default:false" json:"can_manage_staff"`
	CanManagePayroll   bool `gorm:"not null;default:false" json:"can_manage_payroll"`
	CanManageEnquiries bool `gorm:"not null;default:false" json:"can_manage_enquiries"`
	IsSuperAdmin       bool `gorm:"not null;default:false" json:"is_super_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Has reports whether the admin holds the given permission. A super admin
// bypasses every individual flag.
func (a *AdminDetail) Has(p Permission) bool {
	if a.IsSuperAdmin {
		return true
	}
	switch p {
	case PermManageBookings:
		return a.CanManageBookings
	case PermManageStaff:
		return a.CanManageStaff
	case PermManagePayroll:
		return a.CanManagePayroll
	case PermManageEnquiries:
		return a.CanManageEnquiries
	}
	return false
}
