package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftType struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string          `gorm:"uniqueIndex;not null" json:"name"`
	StartTime          string          `gorm:"type:time;not null" json:"start_time"`
	EndTime            string          `gorm:"type:time;not null" json:"end_time"`
	WorkingHours       decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"working_hours"`
	GracePeriodMinutes int             `gorm:"default:0" json:"grace_period_minutes"`
	CreatedAt          *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt          *time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

type Schedule struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID  int64          `gorm:"uniqueIndex:idx_schedule_emp_date;not null" json:"employee_id"`
	Employee    *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ShiftTypeID int64          `gorm:"not null" json:"shift_type_id"`
	ShiftType   *ShiftType     `gorm:"foreignKey:ShiftTypeID" json:"shift_type,omitempty"`
	Date        time.Time      `gorm:"type:date;uniqueIndex:idx_schedule_emp_date;not null" json:"date"`
	IsHoliday   bool           `gorm:"default:false" json:"is_holiday"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   *time.Time     `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Holiday types.
const (
	HolidayPublic   = "public"
	HolidayOptional = "optional"
	HolidayRegional = "regional"
)

type Holiday struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Date        time.Time      `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Type        string         `gorm:"default:public" json:"type"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   *time.Time     `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
