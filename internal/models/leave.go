package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Request lifecycle statuses shared by leaves, permissions and expenses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusPaid      = "paid"
)

type LeaveType struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string          `gorm:"uniqueIndex;not null" json:"name"`
	DaysPerYear      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"days_per_year"`
	IsPaid           bool            `gorm:"default:true" json:"is_paid"`
	RequiresApproval bool            `gorm:"default:true" json:"requires_approval"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt        *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt        *time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// LeaveBalance tracks one employee's allotment for one leave type in one
// calendar year. remaining_days must always equal total_days - used_days.
type LeaveBalance struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID    int64           `gorm:"uniqueIndex:idx_balance_emp_type_year;not null" json:"employee_id"`
	LeaveTypeID   int64           `gorm:"uniqueIndex:idx_balance_emp_type_year;not null" json:"leave_type_id"`
	Year          int             `gorm:"uniqueIndex:idx_balance_emp_type_year;not null" json:"year"`
	TotalDays     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"total_days"`
	UsedDays      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"used_days"`
	RemainingDays decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"remaining_days"`
	LeaveType     LeaveType       `gorm:"foreignKey:LeaveTypeID" json:"leave_type"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

type Leave struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int64           `gorm:"index;not null" json:"employee_id"`
	Employee        *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	LeaveTypeID     int64           `gorm:"not null" json:"leave_type_id"`
	LeaveType       *LeaveType      `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
	StartDate       time.Time       `gorm:"type:date;index;not null" json:"start_date"`
	EndDate         time.Time       `gorm:"type:date;index;not null" json:"end_date"`
	Days            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"days"`
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
