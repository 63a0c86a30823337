package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type stubLeaveRepo struct {
	// mu stands in for the database transaction boundary so concurrent
	// Transaction calls serialize like row-locked transactions do.
	mu       sync.Mutex
	leaves   map[int64]*models.Leave
	types    map[int64]*models.LeaveType
	balances map[string]*models.LeaveBalance
	nextID   int64
}

func newStubLeaveRepo() *stubLeaveRepo {
	return &stubLeaveRepo{
		leaves:   make(map[int64]*models.Leave),
		types:    make(map[int64]*models.LeaveType),
		balances: make(map[string]*models.LeaveBalance),
	}
}

func balanceKey(employeeID, leaveTypeID int64, year int) string {
	return fmt.Sprintf("%d:%d:%d", employeeID, leaveTypeID, year)
}

func (r *stubLeaveRepo) Transaction(ctx context.Context, fn func(repository.LeaveRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

func (r *stubLeaveRepo) Create(ctx context.Context, leave *models.Leave) error {
	r.nextID++
	leave.ID = r.nextID
	copied := *leave
	r.leaves[leave.ID] = &copied
	return nil
}

// FindByID takes mu because the services read outside Transaction;
// LockByID runs inside a held Transaction and must not.
func (r *stubLeaveRepo) FindByID(ctx context.Context, id int64) (*models.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByID(id)
}

func (r *stubLeaveRepo) LockByID(ctx context.Context, id int64) (*models.Leave, error) {
	return r.findByID(id)
}

func (r *stubLeaveRepo) findByID(id int64) (*models.Leave, error) {
	leave, ok := r.leaves[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *leave
	return &copied, nil
}

func (r *stubLeaveRepo) List(ctx context.Context, filter repository.LeaveFilter) ([]models.Leave, int64, error) {
	var out []models.Leave
	for _, leave := range r.leaves {
		out = append(out, *leave)
	}
	return out, int64(len(out)), nil
}

func (r *stubLeaveRepo) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	for _, leave := range r.leaves {
		if leave.EmployeeID != employeeID {
			continue
		}
		if leave.Status != models.StatusPending && leave.Status != models.StatusApproved {
			continue
		}
		if !leave.StartDate.After(end) && !leave.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLeaveRepo) Update(ctx context.Context, leave *models.Leave) error {
	copied := *leave
	r.leaves[leave.ID] = &copied
	return nil
}

func (r *stubLeaveRepo) FindType(ctx context.Context, id int64) (*models.LeaveType, error) {
	leaveType, ok := r.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return leaveType, nil
}

func (r *stubLeaveRepo) ListTypes(ctx context.Context) ([]models.LeaveType, error) {
	var out []models.LeaveType
	for _, leaveType := range r.types {
		out = append(out, *leaveType)
	}
	return out, nil
}

func (r *stubLeaveRepo) FindBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error) {
	balance, ok := r.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *balance
	return &copied, nil
}

func (r *stubLeaveRepo) LockBalance(ctx context.Context, employeeID, leaveTypeID int64, year int) (*models.LeaveBalance, error) {
	return r.FindBalance(ctx, employeeID, leaveTypeID, year)
}

func (r *stubLeaveRepo) ListBalances(ctx context.Context, employeeID int64, year int) ([]models.LeaveBalance, error) {
	var out []models.LeaveBalance
	for _, balance := range r.balances {
		if balance.EmployeeID == employeeID && balance.Year == year {
			out = append(out, *balance)
		}
	}
	return out, nil
}

func (r *stubLeaveRepo) CreateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	copied := *balance
	r.balances[balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)] = &copied
	return nil
}

func (r *stubLeaveRepo) UpdateBalance(ctx context.Context, balance *models.LeaveBalance) error {
	copied := *balance
	r.balances[balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)] = &copied
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func newLeaveFixture(t *testing.T) (*LeaveService, *stubLeaveRepo) {
	t.Helper()
	repo := newStubLeaveRepo()
	repo.types[1] = &models.LeaveType{ID: 1, Name: "Annual Leave", DaysPerYear: decimal.NewFromInt(20)}
	repo.balances[balanceKey(1, 1, 2025)] = &models.LeaveBalance{
		EmployeeID:    1,
		LeaveTypeID:   1,
		Year:          2025,
		TotalDays:     decimal.NewFromInt(20),
		UsedDays:      decimal.Zero,
		RemainingDays: decimal.NewFromInt(20),
	}

	svc := NewLeaveService(repo, NopCache{})
	svc.now = fixedNow
	return svc, repo
}

func applyInput(days int64) ApplyLeaveInput {
	return ApplyLeaveInput{
		LeaveTypeID: 1,
		StartDate:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC),
		Days:        decimal.NewFromInt(days),
		Reason:      "vacation",
	}
}

func TestApplyLeavesBalanceUntouched(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if leave.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", leave.Status, models.StatusPending)
	}

	balance := repo.balances[balanceKey(1, 1, 2025)]
	if !balance.UsedDays.IsZero() {
		t.Errorf("used days changed on apply: %s", balance.UsedDays)
	}
	if !balance.RemainingDays.Equal(decimal.NewFromInt(20)) {
		t.Errorf("remaining days changed on apply: %s", balance.RemainingDays)
	}
}

func TestApproveDeductsBalance(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	approved, err := svc.Approve(context.Background(), leave.ID, 99)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %q, want %q", approved.Status, models.StatusApproved)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != 99 {
		t.Errorf("approver not recorded: %v", approved.ApprovedByID)
	}

	balance := repo.balances[balanceKey(1, 1, 2025)]
	if !balance.UsedDays.Equal(decimal.NewFromInt(5)) {
		t.Errorf("used days = %s, want 5", balance.UsedDays)
	}
	if !balance.RemainingDays.Equal(decimal.NewFromInt(15)) {
		t.Errorf("remaining days = %s, want 15", balance.RemainingDays)
	}
}

func TestConcurrentApprovalsDeductOnce(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), leave.ID, 99)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflict int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.GetCode(err) == apperror.CodeConflict:
			conflict++
		default:
			t.Fatalf("Approve: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("got %d successes and %d conflicts, want 1 and 1", ok, conflict)
	}

	balance := repo.balances[balanceKey(1, 1, 2025)]
	if !balance.UsedDays.Equal(decimal.NewFromInt(5)) {
		t.Errorf("used days = %s, want 5 after concurrent approvals", balance.UsedDays)
	}
	if !balance.RemainingDays.Equal(decimal.NewFromInt(15)) {
		t.Errorf("remaining days = %s, want 15 after concurrent approvals", balance.RemainingDays)
	}
}

func TestApproveRecheckFailsWhenBalanceDrained(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	drained := repo.balances[balanceKey(1, 1, 2025)]
	drained.UsedDays = decimal.NewFromInt(18)
	drained.RemainingDays = decimal.NewFromInt(2)

	_, err = svc.Approve(context.Background(), leave.ID, 99)
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict when balance drained before approval", err)
	}

	balance := repo.balances[balanceKey(1, 1, 2025)]
	if !balance.UsedDays.Equal(decimal.NewFromInt(18)) {
		t.Errorf("used days = %s, want 18 untouched", balance.UsedDays)
	}
	got, findErr := svc.Get(context.Background(), leave.ID)
	if findErr != nil {
		t.Fatalf("Get: %v", findErr)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %q, want still pending", got.Status)
	}
}

func TestCancelApprovedRestoresBalance(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := svc.Approve(context.Background(), leave.ID, 99); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), leave.ID, 1)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %q, want %q", cancelled.Status, models.StatusCancelled)
	}

	balance := repo.balances[balanceKey(1, 1, 2025)]
	if !balance.UsedDays.IsZero() {
		t.Errorf("used days = %s, want 0 after round trip", balance.UsedDays)
	}
	if !balance.RemainingDays.Equal(decimal.NewFromInt(20)) {
		t.Errorf("remaining days = %s, want 20 after round trip", balance.RemainingDays)
	}
}

func TestApplyInsufficientBalanceCreatesNoRow(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	_, err := svc.Apply(context.Background(), 1, applyInput(25))
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(repo.leaves) != 0 {
		t.Errorf("leave row created despite insufficient balance")
	}
}

func TestApplyRejectsOverlap(t *testing.T) {
	svc, _ := newLeaveFixture(t)

	if _, err := svc.Apply(context.Background(), 1, applyInput(5)); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	in := applyInput(2)
	in.StartDate = time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	in.EndDate = time.Date(2025, time.July, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Apply(context.Background(), 1, in)
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict for overlapping dates", err)
	}
}

func TestApplyValidation(t *testing.T) {
	svc, _ := newLeaveFixture(t)

	tests := []struct {
		name   string
		mutate func(*ApplyLeaveInput)
	}{
		{"reversed dates", func(in *ApplyLeaveInput) {
			in.StartDate, in.EndDate = in.EndDate, in.StartDate
		}},
		{"below half day", func(in *ApplyLeaveInput) {
			in.Days = decimal.NewFromFloat(0.25)
		}},
		{"unknown leave type", func(in *ApplyLeaveInput) {
			in.LeaveTypeID = 42
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := applyInput(2)
			tt.mutate(&in)
			_, err := svc.Apply(context.Background(), 1, in)
			if apperror.GetCode(err) != apperror.CodeValidation {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestApproveRejectsNonPending(t *testing.T) {
	svc, _ := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := svc.Reject(context.Background(), leave.ID, 99, "coverage gap"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	_, err = svc.Approve(context.Background(), leave.ID, 99)
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict approving a rejected leave", err)
	}
}

func TestCancelByNonOwnerDenied(t *testing.T) {
	svc, _ := newLeaveFixture(t)

	leave, err := svc.Apply(context.Background(), 1, applyInput(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	_, err = svc.Cancel(context.Background(), leave.ID, 2)
	if apperror.GetCode(err) != apperror.CodeForbidden {
		t.Fatalf("err = %v, want forbidden for non-owner cancel", err)
	}
}
