package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/models"
)

type PermissionFilter struct {
	EmployeeID *int64
	Status     string
	Date       *time.Time
	Offset     int
	Limit      int
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	FindByID(ctx context.Context, id int64) (*models.Permission, error)
	List(ctx context.Context, filter PermissionFilter) ([]models.Permission, int64, error)
	// HasOverlap reports whether any pending or approved permission of the
	// employee on the given date intersects [start, end], bounds inclusive.
	HasOverlap(ctx context.Context, employeeID int64, date time.Time, start, end string) (bool, error)
	Update(ctx context.Context, permission *models.Permission) error
}

type gormPermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &gormPermissionRepository{db: db}
}

func (r *gormPermissionRepository) Create(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *gormPermissionRepository) FindByID(ctx context.Context, id int64) (*models.Permission, error) {
	var permission models.Permission
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Approver").
		First(&permission, id).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *gormPermissionRepository) List(ctx context.Context, filter PermissionFilter) ([]models.Permission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Permission{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var permissions []models.Permission
	err := query.
		Preload("Employee").
		Preload("Approver").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

func (r *gormPermissionRepository) HasOverlap(ctx context.Context, employeeID int64, date time.Time, start, end string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("employee_id = ? AND date = ?", employeeID, date).
		Where("status IN ?", []string{models.StatusPending, models.StatusApproved}).
		Where("start_time <= ? AND end_time >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *gormPermissionRepository) Update(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).Save(permission).Error
}
