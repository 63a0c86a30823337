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

type MonthlySummary struct {
	TotalDays           int             `json:"totalDays"`
	PresentDays         int             `json:"presentDays"`
	LateDays            int             `json:"lateDays"`
	HalfDays            int             `json:"halfDays"`
	TotalWorkingHours   decimal.Decimal `json:"totalWorkingHours"`
	AverageWorkingHours decimal.Decimal `json:"averageWorkingHours"`
}

type MonthlyReport struct {
	EmployeeID  int64               `json:"employee_id"`
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Summary     MonthlySummary      `json:"summary"`
	Attendances []models.Attendance `json:"attendances"`
}

type AttendanceService struct {
	attendances repository.AttendanceRepository
	now         func() time.Time
}

func NewAttendanceService(attendances repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		attendances: attendances,
		now:         time.Now,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClockIn records the day's first punch. One record per employee per
// calendar day.
func (s *AttendanceService) ClockIn(ctx context.Context, employeeID int64, ip, location, notes string) (*models.Attendance, error) {
	now := s.now()
	today := dateOnly(now)

	_, err := s.attendances.FindByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		return nil, apperror.Conflict("already clocked in today")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attendance := &models.Attendance{
		EmployeeID:      employeeID,
		Date:            today,
		ClockIn:         now,
		ClockInIP:       ip,
		ClockInLocation: location,
		Notes:           notes,
		Status:          models.AttendancePresent,
	}
	if err := s.attendances.Create(ctx, attendance); err != nil {
		return nil, err
	}

	return attendance, nil
}

// ClockOut closes the day's record and derives working hours, rounded to
// 2 decimal places.
func (s *AttendanceService) ClockOut(ctx context.Context, employeeID int64, ip, location string) (*models.Attendance, error) {
	now := s.now()
	today := dateOnly(now)

	attendance, err := s.attendances.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Conflict("no clock-in record found for today")
		}
		return nil, err
	}
	if attendance.ClockOut != nil {
		return nil, apperror.Conflict("already clocked out today")
	}

	attendance.ClockOut = &now
	attendance.ClockOutIP = ip
	attendance.ClockOutLocation = location
	attendance.WorkingHours = decimal.NewFromFloat(now.Sub(attendance.ClockIn).Hours()).Round(2)
	if err := s.attendances.Update(ctx, attendance); err != nil {
		return nil, err
	}

	return attendance, nil
}

// Today returns the current day's record, or nil when the employee has not
// clocked in yet.
func (s *AttendanceService) Today(ctx context.Context, employeeID int64) (*models.Attendance, error) {
	attendance, err := s.attendances.FindByEmployeeAndDate(ctx, employeeID, dateOnly(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attendance, nil
}

func (s *AttendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]models.Attendance, int64, error) {
	return s.attendances.List(ctx, filter)
}

func (s *AttendanceService) MonthlyReport(ctx context.Context, employeeID int64, year, month int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperror.BadRequest("month must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	records, err := s.attendances.ListRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	summary := MonthlySummary{
		TotalDays:           len(records),
		TotalWorkingHours:   decimal.Zero,
		AverageWorkingHours: decimal.Zero,
	}
	for _, record := range records {
		summary.TotalWorkingHours = summary.TotalWorkingHours.Add(record.WorkingHours)
		switch record.Status {
		case models.AttendancePresent:
			summary.PresentDays++
		case models.AttendanceLate:
			summary.LateDays++
		case models.AttendanceHalfDay:
			summary.HalfDays++
		}
	}
	if summary.TotalDays > 0 {
		summary.AverageWorkingHours = summary.TotalWorkingHours.
			Div(decimal.NewFromInt(int64(summary.TotalDays))).
			Round(2)
	}

	return &MonthlyReport{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		Summary:     summary,
		Attendances: records,
	}, nil
}
