package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hrms-backend/internal/models"
)

type LeaveFilter struct {
	EmployeeID  *int64
	LeaveTypeID *int64
	Status      string
	Offset      int
	Limit       int
}

type LeaveRepository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; every write inside commits or rolls back together.
	Transaction(ctx context.Context, fn func(LeaveRepository) error) error

	Create(ctx context.Context, leave *models.Leave) error
	FindByID(ctx context.Context, id int64) (*models.Leave, error)
	// LockByID reads the leave row under SELECT ... FOR UPDATE so status
	// checks and the balance mutation see one consistent row. Only
	// meaningful inside Transaction.
	LockByID(ctx context.Context, id int64) (*models.Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]models.Leave, int64, error)
	// HasOverlap reports whether any pending or approved leave of the
	// employee intersects [start, end], bounds inclusive.
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
	Update(ctx context.Context, leave *models.Leave) error

	FindType(ctx context.Context, id int64) (*models.LeaveType, error)
	ListTypes(ctx context.Context) ([]models.LeaveType, error)

	FindBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error)
	// LockBalance reads the balance row under SELECT ... FOR UPDATE. Only
	// meaningful inside Transaction.
	LockBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error)
	ListBalances(ctx context.Context, employeeID int64, year int) ([]models.LeaveBalance, error)
	CreateBalance(ctx context.Context, balance *models.LeaveBalance) error
	UpdateBalance(ctx context.Context, balance *models.LeaveBalance) error
}

type gormLeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &gormLeaveRepository{db: db}
}

func (r *gormLeaveRepository) Transaction(ctx context.Context, fn func(LeaveRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLeaveRepository{db: tx})
	})
}

func (r *gormLeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *gormLeaveRepository) FindByID(ctx context.Context, id int64) (*models.Leave, error) {
	var leave models.Leave
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Preload("Employee").
		Preload("Approver").
		First(&leave, id).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *gormLeaveRepository) LockByID(ctx context.Context, id int64) (*models.Leave, error) {
	var leave models.Leave
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&leave, id).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *gormLeaveRepository) List(ctx context.Context, filter LeaveFilter) ([]models.Leave, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Leave{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.LeaveTypeID != nil {
		query = query.Where("leave_type_id = ?", *filter.LeaveTypeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []models.Leave
	err := query.
		Preload("LeaveType").
		Preload("Employee").
		Preload("Approver").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&leaves).Error
	if err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *gormLeaveRepository) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{models.StatusPending, models.StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *gormLeaveRepository) Update(ctx context.Context, leave *models.Leave) error {
	return r.db.WithContext(ctx).Save(leave).Error
}

func (r *gormLeaveRepository) FindType(ctx context.Context, id int64) (*models.LeaveType, error) {
	var leaveType models.LeaveType
	if err := r.db.WithContext(ctx).First(&leaveType, id).Error; err != nil {
		return nil, err
	}
	return &leaveType, nil
}

func (r *gormLeaveRepository) ListTypes(ctx context.Context) ([]models.LeaveType, error) {
	var types []models.LeaveType
	err := r.db.WithContext(ctx).Order("id").Find(&types).Error
	return types, err
}

func (r *gormLeaveRepository) FindBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error) {
	return r.findBalance(ctx, employeeID, leaveTypeID, year, false)
}

func (r *gormLeaveRepository) LockBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error) {
	return r.findBalance(ctx, employeeID, leaveTypeID, year, true)
}

func (r *gormLeaveRepository) findBalance(ctx context.Context, employeeID, leaveTypeID int64, year int, lock bool) (*models.LeaveBalance, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var balance models.LeaveBalance
	err := query.
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *gormLeaveRepository) ListBalances(ctx context.Context, employeeID int64, year int) ([]models.LeaveBalance, error) {
	var balances []models.LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id").
		Find(&balances).Error
	return balances, err
}

func (r *gormLeaveRepository) CreateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.db.WithContext(ctx).Create(balance).Error
}

func (r *gormLeaveRepository) UpdateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}
