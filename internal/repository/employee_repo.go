package repository

import (
	"context"

	"gorm.io/gorm"

	"hrms-backend/internal/models"
)

type EmployeeFilter struct {
	Search         string
	Department     string
	Status         string
	EmploymentType string
	Offset         int
	Limit          int
}

type EmployeeRepository interface {
	// CreateWithUser persists the user account and the employee profile in
	// one transaction; neither row survives a failure of the other.
	CreateWithUser(ctx context.Context, user *models.User, employee *models.Employee) error
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Employee, error)
	FindByCode(ctx context.Context, code string) (*models.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	Update(ctx context.Context, employee *models.Employee) error
	// Delete soft-deletes the employee and deactivates the owning user.
	Delete(ctx context.Context, employee *models.Employee) error
}

type gormEmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &gormEmployeeRepository{db: db}
}

func (r *gormEmployeeRepository) CreateWithUser(ctx context.Context, user *models.User, employee *models.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		employee.UserID = user.ID
		return tx.Create(employee).Error
	})
}

func (r *gormEmployeeRepository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("Manager").
		First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *gormEmployeeRepository) FindByUserID(ctx context.Context, userID int64) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("user_id = ?", userID).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *gormEmployeeRepository) FindByCode(ctx context.Context, code string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("employee_code = ?", code).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *gormEmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmploymentType != "" {
		query = query.Where("employment_type = ?", filter.EmploymentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err := query.
		Preload("Manager").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *gormEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *gormEmployeeRepository) Delete(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(employee).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", employee.UserID).
			Update("is_active", false).Error
	})
}
