package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Permission is a short same-day absence request, not an access-control
// permission. Start and end times are wall-clock "HH:MM" strings on one date.
type Permission struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int64           `gorm:"index;not null" json:"employee_id"`
	Employee        *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date            time.Time       `gorm:"type:date;index;not null" json:"date"`
	StartTime       string          `gorm:"type:time;not null" json:"start_time"`
	EndTime         string          `gorm:"type:time;not null" json:"end_time"`
	DurationHours   decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"duration_hours"`
	Reason          string          `gorm:"type:text;not null" json:"reason"`
	Status          string          `gorm:"index;default:pending" json:"status"`
	ApprovedByID    *int64          `json:"approved_by,omitempty"`
	Approver        *User           `gorm:"foreignKey:ApprovedByID" json:"approver,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt       *time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}
