package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/models"
)

type AttendanceFilter struct {
	EmployeeID *int64
	Status     string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error)
	// ListRange returns the records for one employee in [from, to]
	// ordered by date ascending, without pagination; used for reports.
	ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Attendance, error)
	Update(ctx context.Context, attendance *models.Attendance) error
}

type gormAttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &gormAttendanceRepository{db: db}
}

func (r *gormAttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *gormAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *gormAttendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Attendance
	err := query.
		Preload("Employee").
		Order("date DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *gormAttendanceRepository) ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *gormAttendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}
