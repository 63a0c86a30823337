package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

var minLeaveDays = decimal.NewFromFloat(0.5)

type ApplyLeaveInput struct {
	LeaveTypeID int64
	StartDate   time.Time
	EndDate     time.Time
	Days        decimal.Decimal
	Reason      string
}

type LeaveService struct {
	leaves repository.LeaveRepository
	cache  Cache
	now    func() time.Time
}

func NewLeaveService(leaves repository.LeaveRepository, cache Cache) *LeaveService {
	return &LeaveService{
		leaves: leaves,
		cache:  cache,
		now:    time.Now,
	}
}

func balanceCacheKey(employeeID int64, year int) string {
	return fmt.Sprintf("leave:balance:%d:%d", employeeID, year)
}

// Apply validates the request and creates a pending leave. Validation and
// creation run in one transaction so a failure never leaves partial state.
func (s *LeaveService) Apply(ctx context.Context, employeeID int64, in ApplyLeaveInput) (*models.Leave, error) {
	if in.StartDate.After(in.EndDate) {
		return nil, apperror.BadRequest("start_date must be on or before end_date")
	}
	if in.Days.LessThan(minLeaveDays) {
		return nil, apperror.BadRequest("days must be at least 0.5")
	}

	leave := &models.Leave{
		EmployeeID:  employeeID,
		LeaveTypeID: in.LeaveTypeID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Days:        in.Days,
		Reason:      in.Reason,
		Status:      models.StatusPending,
	}

	year := s.now().Year()
	err := s.leaves.Transaction(ctx, func(r repository.LeaveRepository) error {
		if _, err := r.FindType(ctx, in.LeaveTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("invalid leave type")
			}
			return err
		}

		overlap, err := r.HasOverlap(ctx, employeeID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			return apperror.Conflict("leave dates overlap with an existing leave request")
		}

		balance, err := r.FindBalance(ctx, employeeID, in.LeaveTypeID, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("leave balance not found for current year")
			}
			return err
		}
		if balance.RemainingDays.LessThan(in.Days) {
			return apperror.Newf(apperror.CodeConflict,
				"insufficient leave balance: %s days available", balance.RemainingDays.String())
		}

		return r.Create(ctx, leave)
	})
	if err != nil {
		return nil, err
	}

	return s.leaves.FindByID(ctx, leave.ID)
}

// Approve re-checks status and balance under row locks and applies the
// deduction and the status flip as one unit. The leave row is locked
// before the status check so two concurrent approvals cannot both see
// pending and deduct twice.
func (s *LeaveService) Approve(ctx context.Context, leaveID, approverID int64) (*models.Leave, error) {
	var employeeID int64
	year := s.now().Year()

	err := s.leaves.Transaction(ctx, func(r repository.LeaveRepository) error {
		leave, err := r.LockByID(ctx, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("leave not found")
			}
			return err
		}
		if leave.Status != models.StatusPending {
			return apperror.Newf(apperror.CodeConflict, "leave is already %s", leave.Status)
		}

		balance, err := r.LockBalance(ctx, leave.EmployeeID, leave.LeaveTypeID, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("leave balance not found")
			}
			return err
		}
		if balance.RemainingDays.LessThan(leave.Days) {
			return apperror.Conflict("insufficient leave balance")
		}

		balance.UsedDays = balance.UsedDays.Add(leave.Days)
		balance.RemainingDays = balance.RemainingDays.Sub(leave.Days)
		if err := r.UpdateBalance(ctx, balance); err != nil {
			return err
		}

		now := s.now()
		leave.Status = models.StatusApproved
		leave.ApprovedByID = &approverID
		leave.ApprovedAt = &now
		employeeID = leave.EmployeeID
		return r.Update(ctx, leave)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Del(ctx, balanceCacheKey(employeeID, year))
	return s.leaves.FindByID(ctx, leaveID)
}

// Reject locks the leave row too; a reject racing an approve must not
// overwrite an approved leave whose balance was already deducted.
func (s *LeaveService) Reject(ctx context.Context, leaveID, approverID int64, reason string) (*models.Leave, error) {
	err := s.leaves.Transaction(ctx, func(r repository.LeaveRepository) error {
		leave, err := r.LockByID(ctx, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("leave not found")
			}
			return err
		}
		if leave.Status != models.StatusPending {
			return apperror.Newf(apperror.CodeConflict, "leave is already %s", leave.Status)
		}

		now := s.now()
		leave.Status = models.StatusRejected
		leave.ApprovedByID = &approverID
		leave.ApprovedAt = &now
		leave.RejectionReason = reason
		return r.Update(ctx, leave)
	})
	if err != nil {
		return nil, err
	}

	return s.leaves.FindByID(ctx, leaveID)
}

// Cancel is owner-only. Cancelling an approved leave restores the balance
// inside the same transaction that flips the status.
func (s *LeaveService) Cancel(ctx context.Context, leaveID, employeeID int64) (*models.Leave, error) {
	year := s.now().Year()

	err := s.leaves.Transaction(ctx, func(r repository.LeaveRepository) error {
		leave, err := r.LockByID(ctx, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("leave not found")
			}
			return err
		}
		if leave.EmployeeID != employeeID {
			return apperror.Forbidden("access denied")
		}
		if leave.Status != models.StatusPending && leave.Status != models.StatusApproved {
			return apperror.Newf(apperror.CodeConflict,
				"only pending or approved leaves can be cancelled, leave is %s", leave.Status)
		}

		if leave.Status == models.StatusApproved {
			balance, err := r.LockBalance(ctx, leave.EmployeeID, leave.LeaveTypeID, year)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			} else {
				balance.UsedDays = balance.UsedDays.Sub(leave.Days)
				balance.RemainingDays = balance.RemainingDays.Add(leave.Days)
				if err := r.UpdateBalance(ctx, balance); err != nil {
					return err
				}
			}
		}

		leave.Status = models.StatusCancelled
		return r.Update(ctx, leave)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Del(ctx, balanceCacheKey(employeeID, year))
	return s.leaves.FindByID(ctx, leaveID)
}

func (s *LeaveService) Get(ctx context.Context, leaveID int64) (*models.Leave, error) {
	leave, err := s.leaves.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("leave not found")
		}
		return nil, err
	}
	return leave, nil
}

func (s *LeaveService) List(ctx context.Context, filter repository.LeaveFilter) ([]models.Leave, int64, error) {
	return s.leaves.List(ctx, filter)
}

// Balances returns every balance row of the employee for the current year,
// leave type included, cached briefly.
func (s *LeaveService) Balances(ctx context.Context, employeeID int64) ([]models.LeaveBalance, int, error) {
	year := s.now().Year()
	key := balanceCacheKey(employeeID, year)

	var balances []models.LeaveBalance
	if s.cache.Get(ctx, key, &balances) {
		return balances, year, nil
	}

	balances, err := s.leaves.ListBalances(ctx, employeeID, year)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(ctx, key, balances, cacheTTLShort)
	return balances, year, nil
}

func (s *LeaveService) Types(ctx context.Context) ([]models.LeaveType, error) {
	const key = "leave:types"

	var types []models.LeaveType
	if s.cache.Get(ctx, key, &types) {
		return types, nil
	}

	types, err := s.leaves.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, types, cacheTTLLong)
	return types, nil
}
