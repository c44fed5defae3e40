package models

import "time"

// StaffDetail holds the pay configuration and running totals for a staff
// user. Totals are incremented each time payroll is derived, never
// recomputed from history.
type StaffDetail struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	UserID           uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User             User    `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	HourlyRate       float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"hourly_rate"`
	TotalHoursWorked float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_hours_worked"`
	TotalEarnings    float64 `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_earnings"`
	TasksCompleted   int     `gorm:"not null;default:0" json:"tasks_completed"`
	AverageRating    float64 `gorm:"type:decimal(3,2);not null;default:0.00" json:"average_rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
