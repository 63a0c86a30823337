package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/models"
)

type ScheduleFilter struct {
	EmployeeID  *int64
	ShiftTypeID *int64
	From        *time.Time
	To          *time.Time
	Offset      int
	Limit       int
}

type HolidayFilter struct {
	Year int
	Type string
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.Schedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]models.Schedule, int64, error)
	ListForEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, schedule *models.Schedule) error

	FindShiftType(ctx context.Context, id int64) (*models.ShiftType, error)
	ListShiftTypes(ctx context.Context) ([]models.ShiftType, error)

	CreateHoliday(ctx context.Context, holiday *models.Holiday) error
	FindHoliday(ctx context.Context, id int64) (*models.Holiday, error)
	FindHolidayByDate(ctx context.Context, date time.Time) (*models.Holiday, error)
	ListHolidays(ctx context.Context, filter HolidayFilter) ([]models.Holiday, error)
	UpdateHoliday(ctx context.Context, holiday *models.Holiday) error
	DeleteHoliday(ctx context.Context, holiday *models.Holiday) error
}

type gormScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &gormScheduleRepository{db: db}
}

func (r *gormScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *gormScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("ShiftType").
		First(&schedule, id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *gormScheduleRepository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *gormScheduleRepository) List(ctx context.Context, filter ScheduleFilter) ([]models.Schedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Schedule{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.ShiftTypeID != nil {
		query = query.Where("shift_type_id = ?", *filter.ShiftTypeID)
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

	var schedules []models.Schedule
	err := query.
		Preload("Employee").
		Preload("ShiftType").
		Order("date DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&schedules).Error
	if err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

func (r *gormScheduleRepository) ListForEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Preload("ShiftType").
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, from, to).
		Order("date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *gormScheduleRepository) Delete(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Delete(schedule).Error
}

func (r *gormScheduleRepository) FindShiftType(ctx context.Context, id int64) (*models.ShiftType, error) {
	var shiftType models.ShiftType
	if err := r.db.WithContext(ctx).First(&shiftType, id).Error; err != nil {
		return nil, err
	}
	return &shiftType, nil
}

func (r *gormScheduleRepository) ListShiftTypes(ctx context.Context) ([]models.ShiftType, error) {
	var types []models.ShiftType
	err := r.db.WithContext(ctx).Order("id").Find(&types).Error
	return types, err
}

func (r *gormScheduleRepository) CreateHoliday(ctx context.Context, holiday *models.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *gormScheduleRepository) FindHoliday(ctx context.Context, id int64) (*models.Holiday, error) {
	var holiday models.Holiday
	if err := r.db.WithContext(ctx).First(&holiday, id).Error; err != nil {
		return nil, err
	}
	return &holiday, nil
}

func (r *gormScheduleRepository) FindHolidayByDate(ctx context.Context, date time.Time) (*models.Holiday, error) {
	var holiday models.Holiday
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&holiday).Error
	if err != nil {
		return nil, err
	}
	return &holiday, nil
}

func (r *gormScheduleRepository) ListHolidays(ctx context.Context, filter HolidayFilter) ([]models.Holiday, error) {
	query := r.db.WithContext(ctx).Model(&models.Holiday{})

	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(filter.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		query = query.Where("date BETWEEN ? AND ?", start, end)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var holidays []models.Holiday
	err := query.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *gormScheduleRepository) UpdateHoliday(ctx context.Context, holiday *models.Holiday) error {
	return r.db.WithContext(ctx).Save(holiday).Error
}

func (r *gormScheduleRepository) DeleteHoliday(ctx context.Context, holiday *models.Holiday) error {
	return r.db.WithContext(ctx).Delete(holiday).Error
}
