package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role names are the authorization mechanism. The seeded set is fixed;
// policy decisions key off Role.Name, nothing else.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleHR         = "HR"
	RoleEmployee   = "Employee"
)

type Role struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   *time.Time     `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type User struct {
	ID                   int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Email                string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string         `gorm:"not null" json:"-"`
	RoleID               int64          `gorm:"not null" json:"role_id"`
	Role                 Role           `gorm:"foreignKey:RoleID" json:"role"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	LastLogin            *time.Time     `json:"last_login,omitempty"`
	PasswordResetHash    string         `json:"-"`
	PasswordResetExpires *time.Time     `json:"-"`
	Employee             *Employee      `gorm:"foreignKey:UserID" json:"employee,omitempty"`
	CreatedAt            *time.Time     `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt            *time.Time     `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

type Employee struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"uniqueIndex;not null" json:"user_id"`
	EmployeeCode   string          `gorm:"uniqueIndex;not null" json:"employee_code"`
	FirstName      string          `gorm:"not null" json:"first_name"`
	LastName       string          `gorm:"not null" json:"last_name"`
	DateOfBirth    *time.Time      `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender         string          `json:"gender,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `gorm:"type:text" json:"address,omitempty"`
	City           string          `json:"city,omitempty"`
	State          string          `json:"state,omitempty"`
	Country        string          `json:"country,omitempty"`
	PostalCode     string          `json:"postal_code,omitempty"`
	Department     string          `gorm:"index" json:"department,omitempty"`
	Designation    string          `json:"designation,omitempty"`
	DateOfJoining  time.Time       `gorm:"type:date;not null" json:"date_of_joining"`
	DateOfLeaving  *time.Time      `gorm:"type:date" json:"date_of_leaving,omitempty"`
	EmploymentType string          `gorm:"default:full-time" json:"employment_type"`
	Status         string          `gorm:"index;default:active" json:"status"`
	Salary         decimal.Decimal `gorm:"type:decimal(12,2)" json:"salary"`
	ManagerID      *int64          `gorm:"index" json:"manager_id,omitempty"`
	Manager        *Employee       `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`

	EmergencyContactName     string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    string `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation string `json:"emergency_contact_relation,omitempty"`

	CreatedAt *time.Time     `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time     `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Employment statuses.
const (
	EmployeeActive     = "active"
	EmployeeInactive   = "inactive"
	EmployeeTerminated = "terminated"
)

// RefreshToken rows are hard-deleted, never soft-deleted: a revoked token
// must not linger in the table in any form.
type RefreshToken struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64      `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}
