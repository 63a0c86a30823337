package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type stubExpenseRepo struct {
	expenses   map[int64]*models.Expense
	categories map[int64]*models.ExpenseCategory
	nextID     int64
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{
		expenses:   make(map[int64]*models.Expense),
		categories: make(map[int64]*models.ExpenseCategory),
	}
}

func (r *stubExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	r.nextID++
	expense.ID = r.nextID
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *stubExpenseRepo) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	expense, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *expense
	return &copied, nil
}

func (r *stubExpenseRepo) List(ctx context.Context, filter repository.ExpenseFilter) ([]models.Expense, int64, error) {
	var out []models.Expense
	for _, expense := range r.expenses {
		out = append(out, *expense)
	}
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *stubExpenseRepo) FindCategory(ctx context.Context, id int64) (*models.ExpenseCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *stubExpenseRepo) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var out []models.ExpenseCategory
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

func newExpenseFixture() (*ExpenseService, *stubExpenseRepo) {
	repo := newStubExpenseRepo()
	maxMeals := decimal.NewFromInt(500)
	repo.categories[1] = &models.ExpenseCategory{ID: 1, Name: "Meals", MaxAmount: &maxMeals, RequiresProof: true}
	repo.categories[2] = &models.ExpenseCategory{ID: 2, Name: "Other", RequiresProof: false}

	svc := NewExpenseService(repo, NopCache{})
	svc.now = fixedNow
	return svc, repo
}

func submitInput(amount int64) SubmitExpenseInput {
	return SubmitExpenseInput{
		CategoryID:  1,
		Amount:      decimal.NewFromInt(amount),
		Date:        time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Description: "client lunch",
		ReceiptURL:  "https://files.example.com/receipt-1001.pdf",
	}
}

func TestSubmitExpenseOverLimitCreatesNoRow(t *testing.T) {
	svc, repo := newExpenseFixture()

	_, err := svc.Submit(context.Background(), 1, submitInput(600))
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("err = %v, want validation error over max amount", err)
	}
	if len(repo.expenses) != 0 {
		t.Errorf("expense row created despite exceeding the category limit")
	}
}

func TestSubmitExpenseProofRequired(t *testing.T) {
	svc, _ := newExpenseFixture()

	in := submitInput(100)
	in.ReceiptURL = ""
	_, err := svc.Submit(context.Background(), 1, in)
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("err = %v, want validation error without receipt", err)
	}

	in.CategoryID = 2
	if _, err := svc.Submit(context.Background(), 1, in); err != nil {
		t.Fatalf("Submit without proof for a no-proof category: %v", err)
	}
}

func TestSubmitExpenseUnknownCategory(t *testing.T) {
	svc, _ := newExpenseFixture()

	in := submitInput(100)
	in.CategoryID = 42
	_, err := svc.Submit(context.Background(), 1, in)
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("err = %v, want validation error for unknown category", err)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	svc, _ := newExpenseFixture()

	expense, err := svc.Submit(context.Background(), 1, submitInput(200))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if expense.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", expense.Status)
	}

	// Paying before approval is rejected.
	if _, err := svc.MarkPaid(context.Background(), expense.ID); apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict paying a pending expense", err)
	}

	approved, err := svc.Approve(context.Background(), expense.ID, 99)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	paid, err := svc.MarkPaid(context.Background(), expense.ID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != models.StatusPaid {
		t.Errorf("status = %q, want paid", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Errorf("paid_at not recorded")
	}

	// Approving again after payment is rejected.
	if _, err := svc.Approve(context.Background(), expense.ID, 99); apperror.GetCode(err) != apperror.CodeConflict {
		t.Errorf("err = %v, want conflict approving a paid expense", err)
	}
}

func TestAttachReceiptRules(t *testing.T) {
	svc, _ := newExpenseFixture()

	expense, err := svc.Submit(context.Background(), 1, submitInput(200))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.AttachReceipt(context.Background(), expense.ID, 2, "https://files.example.com/x.pdf"); apperror.GetCode(err) != apperror.CodeForbidden {
		t.Fatalf("err = %v, want forbidden for non-owner", err)
	}

	if _, err := svc.Approve(context.Background(), expense.ID, 99); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.AttachReceipt(context.Background(), expense.ID, 1, "https://files.example.com/x.pdf"); apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict after approval", err)
	}
}
