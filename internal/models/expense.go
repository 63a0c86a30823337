package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseCategory struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string           `gorm:"uniqueIndex;not null" json:"name"`
	MaxAmount     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_amount,omitempty"`
	RequiresProof bool             `gorm:"default:false" json:"requires_proof"`
	Description   string           `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     *time.Time       `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt     *time.Time       `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

type Expense struct {
	ID              int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int64            `gorm:"index;not null" json:"employee_id"`
	Employee        *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CategoryID      int64            `gorm:"not null" json:"category_id"`
	Category        *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Amount          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date            time.Time        `gorm:"type:date;not null" json:"date"`
	Description     string           `gorm:"type:text" json:"description,omitempty"`
	ReceiptURL      string           `json:"receipt_url,omitempty"`
	Status          string           `gorm:"index;default:pending" json:"status"`
	ApprovedByID    *int64           `json:"approved_by,omitempty"`
	Approver        *User            `gorm:"foreignKey:ApprovedByID" json:"approver,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectionReason string           `gorm:"type:text" json:"rejection_reason,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	CreatedAt       *time.Time       `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt       *time.Time       `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}
