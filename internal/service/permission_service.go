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

const permissionTimeLayout = "15:04"

var (
	maxPermissionHours = decimal.NewFromInt(4)
	autoApproveBelow   = decimal.NewFromInt(2)
)

type RequestPermissionInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Reason    string
}

type PermissionService struct {
	permissions repository.PermissionRepository
	now         func() time.Time
}

func NewPermissionService(permissions repository.PermissionRepository) *PermissionService {
	return &PermissionService{
		permissions: permissions,
		now:         time.Now,
	}
}

// PermissionDuration computes the request length in hours from two "HH:MM"
// wall-clock times, rounded to 2 decimal places.
func PermissionDuration(startTime, endTime string) (decimal.Decimal, error) {
	start, err := time.Parse(permissionTimeLayout, startTime)
	if err != nil {
		return decimal.Zero, apperror.BadRequest("start_time must be in HH:MM format")
	}
	end, err := time.Parse(permissionTimeLayout, endTime)
	if err != nil {
		return decimal.Zero, apperror.BadRequest("end_time must be in HH:MM format")
	}
	return decimal.NewFromFloat(end.Sub(start).Hours()).Round(2), nil
}

// Request creates the permission. Requests shorter than two hours are
// auto-approved with the requester recorded as approver.
func (s *PermissionService) Request(ctx context.Context, employeeID, userID int64, in RequestPermissionInput) (*models.Permission, error) {
	duration, err := PermissionDuration(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if duration.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.BadRequest("end_time must be after start_time")
	}
	if duration.GreaterThan(maxPermissionHours) {
		return nil, apperror.BadRequest("permission cannot exceed 4 hours")
	}

	overlap, err := s.permissions.HasOverlap(ctx, employeeID, in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperror.Conflict("permission time overlaps with an existing permission")
	}

	permission := &models.Permission{
		EmployeeID:    employeeID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		DurationHours: duration,
		Reason:        in.Reason,
		Status:        models.StatusPending,
	}

	if duration.LessThan(autoApproveBelow) {
		now := s.now()
		permission.Status = models.StatusApproved
		permission.ApprovedByID = &userID
		permission.ApprovedAt = &now
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissions.FindByID(ctx, permission.ID)
}

func (s *PermissionService) Approve(ctx context.Context, permissionID, approverID int64) (*models.Permission, error) {
	permission, err := s.pending(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	permission.Status = models.StatusApproved
	permission.ApprovedByID = &approverID
	permission.ApprovedAt = &now
	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissions.FindByID(ctx, permissionID)
}

func (s *PermissionService) Reject(ctx context.Context, permissionID, approverID int64, reason string) (*models.Permission, error) {
	permission, err := s.pending(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	permission.Status = models.StatusRejected
	permission.ApprovedByID = &approverID
	permission.ApprovedAt = &now
	permission.RejectionReason = reason
	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissions.FindByID(ctx, permissionID)
}

// Cancel is owner-only and allowed from pending or approved.
func (s *PermissionService) Cancel(ctx context.Context, permissionID, employeeID int64) (*models.Permission, error) {
	permission, err := s.find(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if permission.EmployeeID != employeeID {
		return nil, apperror.Forbidden("access denied")
	}
	if permission.Status != models.StatusPending && permission.Status != models.StatusApproved {
		return nil, apperror.Newf(apperror.CodeConflict,
			"only pending or approved permissions can be cancelled, permission is %s", permission.Status)
	}

	permission.Status = models.StatusCancelled
	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissions.FindByID(ctx, permissionID)
}

func (s *PermissionService) List(ctx context.Context, filter repository.PermissionFilter) ([]models.Permission, int64, error) {
	return s.permissions.List(ctx, filter)
}

func (s *PermissionService) find(ctx context.Context, id int64) (*models.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("permission not found")
		}
		return nil, err
	}
	return permission, nil
}

func (s *PermissionService) pending(ctx context.Context, id int64) (*models.Permission, error) {
	permission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if permission.Status != models.StatusPending {
		return nil, apperror.Newf(apperror.CodeConflict, "permission is already %s", permission.Status)
	}
	return permission, nil
}
