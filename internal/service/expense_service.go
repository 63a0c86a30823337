package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type SubmitExpenseInput struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	ReceiptURL  string
}

type ExpenseService struct {
	expenses repository.ExpenseRepository
	cache    Cache
	now      func() time.Time
}

func NewExpenseService(expenses repository.ExpenseRepository, cache Cache) *ExpenseService {
	return &ExpenseService{
		expenses: expenses,
		cache:    cache,
		now:      time.Now,
	}
}

// Submit validates against the category policy: proof requirement and
// maximum amount. No row is created when either check fails.
func (s *ExpenseService) Submit(ctx context.Context, employeeID int64, in SubmitExpenseInput) (*models.Expense, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.BadRequest("amount must be positive")
	}

	category, err := s.expenses.FindCategory(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("invalid expense category")
		}
		return nil, err
	}
	if category.RequiresProof && in.ReceiptURL == "" {
		return nil, apperror.BadRequest("receipt is required for this category")
	}
	if category.MaxAmount != nil && in.Amount.GreaterThan(*category.MaxAmount) {
		return nil, apperror.Newf(apperror.CodeValidation,
			"amount exceeds maximum limit of %s", category.MaxAmount.String())
	}

	expense := &models.Expense{
		EmployeeID:  employeeID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		ReceiptURL:  in.ReceiptURL,
		Status:      models.StatusPending,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}

	return s.expenses.FindByID(ctx, expense.ID)
}

func (s *ExpenseService) Approve(ctx context.Context, expenseID, approverID int64) (*models.Expense, error) {
	expense, err := s.pending(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense.Status = models.StatusApproved
	expense.ApprovedByID = &approverID
	expense.ApprovedAt = &now
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}

	return s.expenses.FindByID(ctx, expenseID)
}

func (s *ExpenseService) Reject(ctx context.Context, expenseID, approverID int64, reason string) (*models.Expense, error) {
	expense, err := s.pending(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense.Status = models.StatusRejected
	expense.ApprovedByID = &approverID
	expense.ApprovedAt = &now
	expense.RejectionReason = reason
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}

	return s.expenses.FindByID(ctx, expenseID)
}

// MarkPaid is a distinct terminal step after approval: approved funds are
// not assumed disbursed.
func (s *ExpenseService) MarkPaid(ctx context.Context, expenseID int64) (*models.Expense, error) {
	expense, err := s.find(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.StatusApproved {
		return nil, apperror.Newf(apperror.CodeConflict,
			"only approved expenses can be marked as paid, expense is %s", expense.Status)
	}

	now := s.now()
	expense.Status = models.StatusPaid
	expense.PaidAt = &now
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}

	return s.expenses.FindByID(ctx, expenseID)
}

// AttachReceipt replaces the receipt reference; owner-only, and only while
// the expense is still pending.
func (s *ExpenseService) AttachReceipt(ctx context.Context, expenseID, employeeID int64, receiptURL string) (*models.Expense, error) {
	expense, err := s.find(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.EmployeeID != employeeID {
		return nil, apperror.Forbidden("access denied")
	}
	if expense.Status != models.StatusPending {
		return nil, apperror.Conflict("cannot update receipt for a processed expense")
	}

	expense.ReceiptURL = receiptURL
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}

	return s.expenses.FindByID(ctx, expenseID)
}

func (s *ExpenseService) Get(ctx context.Context, expenseID int64) (*models.Expense, error) {
	return s.find(ctx, expenseID)
}

func (s *ExpenseService) List(ctx context.Context, filter repository.ExpenseFilter) ([]models.Expense, int64, error) {
	return s.expenses.List(ctx, filter)
}

func (s *ExpenseService) Categories(ctx context.Context) ([]models.ExpenseCategory, error) {
	const key = "expense:categories"

	var categories []models.ExpenseCategory
	if s.cache.Get(ctx, key, &categories) {
		return categories, nil
	}

	categories, err := s.expenses.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, categories, cacheTTLLong)
	return categories, nil
}

func (s *ExpenseService) find(ctx context.Context, id int64) (*models.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expense not found")
		}
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) pending(ctx context.Context, id int64) (*models.Expense, error) {
	expense, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.StatusPending {
		return nil, apperror.Newf(apperror.CodeConflict, "expense is already %s", expense.Status)
	}
	return expense, nil
}
