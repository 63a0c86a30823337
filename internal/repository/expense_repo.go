package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/models"
)

type ExpenseFilter struct {
	EmployeeID *int64
	CategoryID *int64
	Status     string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id int64) (*models.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, int64, error)
	Update(ctx context.Context, expense *models.Expense) error

	FindCategory(ctx context.Context, id int64) (*models.ExpenseCategory, error)
	ListCategories(ctx context.Context) ([]models.ExpenseCategory, error)
}

type gormExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &gormExpenseRepository{db: db}
}

func (r *gormExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *gormExpenseRepository) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Employee").
		Preload("Approver").
		First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *gormExpenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]models.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Expense{})

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
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

	var expenses []models.Expense
	err := query.
		Preload("Category").
		Preload("Employee").
		Preload("Approver").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *gormExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *gormExpenseRepository) FindCategory(ctx context.Context, id int64) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *gormExpenseRepository) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}
