package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half-day"
	AttendanceLate    = "late"
	AttendanceOnLeave = "on-leave"
)

type Attendance struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID       int64           `gorm:"uniqueIndex:idx_attendance_emp_date;not null" json:"employee_id"`
	Employee         *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Date             time.Time       `gorm:"type:date;uniqueIndex:idx_attendance_emp_date;not null" json:"date"`
	ClockIn          time.Time       `gorm:"not null" json:"clock_in"`
	ClockOut         *time.Time      `json:"clock_out,omitempty"`
	WorkingHours     decimal.Decimal `gorm:"type:decimal(4,2);default:0" json:"working_hours"`
	Status           string          `gorm:"index;default:present" json:"status"`
	ClockInIP        string          `json:"clock_in_ip,omitempty"`
	ClockOutIP       string          `json:"clock_out_ip,omitempty"`
	ClockInLocation  string          `json:"clock_in_location,omitempty"`
	ClockOutLocation string          `json:"clock_out_location,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt        *time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}
