package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type CreateScheduleInput struct {
	EmployeeID  int64
	ShiftTypeID int64
	Date        time.Time
	IsHoliday   bool
	Notes       string
}

type UpdateScheduleInput struct {
	ShiftTypeID *int64
	IsHoliday   *bool
	Notes       *string
}

type CreateHolidayInput struct {
	Name        string
	Date        time.Time
	Type        string
	Description string
}

type UpdateHolidayInput struct {
	Name        *string
	Type        *string
	Description *string
}

type ScheduleService struct {
	schedules repository.ScheduleRepository
	employees repository.EmployeeRepository
	cache     Cache
	now       func() time.Time
}

func NewScheduleService(schedules repository.ScheduleRepository, employees repository.EmployeeRepository, cache Cache) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		employees: employees,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *ScheduleService) Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	if _, err := s.employees.FindByID(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("employee not found")
		}
		return nil, err
	}
	if _, err := s.schedules.FindShiftType(ctx, in.ShiftTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("invalid shift type")
		}
		return nil, err
	}

	date := dateOnly(in.Date)
	if _, err := s.schedules.FindByEmployeeAndDate(ctx, in.EmployeeID, date); err == nil {
		return nil, apperror.Conflict("a schedule already exists for this employee on this date")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	schedule := &models.Schedule{
		EmployeeID:  in.EmployeeID,
		ShiftTypeID: in.ShiftTypeID,
		Date:        date,
		IsHoliday:   in.IsHoliday,
		Notes:       in.Notes,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	return s.schedules.FindByID(ctx, schedule.ID)
}

func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	return s.findSchedule(ctx, id)
}

func (s *ScheduleService) List(ctx context.Context, filter repository.ScheduleFilter) ([]models.Schedule, int64, error) {
	return s.schedules.List(ctx, filter)
}

// MySchedule returns an employee's schedule for the given range. A zero
// range defaults to the current calendar month.
func (s *ScheduleService) MySchedule(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Schedule, error) {
	if from.IsZero() || to.IsZero() {
		now := s.now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	}
	if to.Before(from) {
		return nil, apperror.BadRequest("end date must not be before start date")
	}
	return s.schedules.ListForEmployee(ctx, employeeID, dateOnly(from), dateOnly(to))
}

func (s *ScheduleService) Update(ctx context.Context, id int64, in UpdateScheduleInput) (*models.Schedule, error) {
	schedule, err := s.findSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ShiftTypeID != nil {
		if _, err := s.schedules.FindShiftType(ctx, *in.ShiftTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("invalid shift type")
			}
			return nil, err
		}
		schedule.ShiftTypeID = *in.ShiftTypeID
	}
	if in.IsHoliday != nil {
		schedule.IsHoliday = *in.IsHoliday
	}
	if in.Notes != nil {
		schedule.Notes = *in.Notes
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	return s.schedules.FindByID(ctx, id)
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	schedule, err := s.findSchedule(ctx, id)
	if err != nil {
		return err
	}
	return s.schedules.Delete(ctx, schedule)
}

func (s *ScheduleService) ShiftTypes(ctx context.Context) ([]models.ShiftType, error) {
	const key = "schedule:shift_types"

	var types []models.ShiftType
	if s.cache.Get(ctx, key, &types) {
		return types, nil
	}

	types, err := s.schedules.ListShiftTypes(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, types, cacheTTLLong)
	return types, nil
}

func (s *ScheduleService) CreateHoliday(ctx context.Context, in CreateHolidayInput) (*models.Holiday, error) {
	holidayType := in.Type
	if holidayType == "" {
		holidayType = models.HolidayPublic
	}
	if err := validHolidayType(holidayType); err != nil {
		return nil, err
	}

	date := dateOnly(in.Date)
	if _, err := s.schedules.FindHolidayByDate(ctx, date); err == nil {
		return nil, apperror.Conflict("a holiday already exists on this date")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	holiday := &models.Holiday{
		Name:        in.Name,
		Date:        date,
		Type:        holidayType,
		Description: in.Description,
	}
	if err := s.schedules.CreateHoliday(ctx, holiday); err != nil {
		return nil, err
	}

	s.cache.Del(ctx, holidayCacheKey(date.Year()))
	return holiday, nil
}

func (s *ScheduleService) Holidays(ctx context.Context, filter repository.HolidayFilter) ([]models.Holiday, error) {
	if filter.Year == 0 {
		filter.Year = s.now().UTC().Year()
	}

	key := holidayCacheKey(filter.Year)
	if filter.Type == "" {
		var holidays []models.Holiday
		if s.cache.Get(ctx, key, &holidays) {
			return holidays, nil
		}
	}

	holidays, err := s.schedules.ListHolidays(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Type == "" {
		s.cache.Set(ctx, key, holidays, cacheTTLShort)
	}
	return holidays, nil
}

// UpdateHoliday edits name, type and description only. The date is the
// identity of a holiday; moving one means delete and recreate.
func (s *ScheduleService) UpdateHoliday(ctx context.Context, id int64, in UpdateHolidayInput) (*models.Holiday, error) {
	holiday, err := s.findHoliday(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		holiday.Name = *in.Name
	}
	if in.Type != nil {
		if err := validHolidayType(*in.Type); err != nil {
			return nil, err
		}
		holiday.Type = *in.Type
	}
	if in.Description != nil {
		holiday.Description = *in.Description
	}

	if err := s.schedules.UpdateHoliday(ctx, holiday); err != nil {
		return nil, err
	}

	s.cache.Del(ctx, holidayCacheKey(holiday.Date.Year()))
	return holiday, nil
}

func (s *ScheduleService) DeleteHoliday(ctx context.Context, id int64) error {
	holiday, err := s.findHoliday(ctx, id)
	if err != nil {
		return err
	}
	if err := s.schedules.DeleteHoliday(ctx, holiday); err != nil {
		return err
	}

	s.cache.Del(ctx, holidayCacheKey(holiday.Date.Year()))
	return nil
}

func (s *ScheduleService) findSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("schedule not found")
		}
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) findHoliday(ctx context.Context, id int64) (*models.Holiday, error) {
	holiday, err := s.schedules.FindHoliday(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("holiday not found")
		}
		return nil, err
	}
	return holiday, nil
}

func validHolidayType(t string) error {
	switch t {
	case models.HolidayPublic, models.HolidayOptional, models.HolidayRegional:
		return nil
	}
	return apperror.BadRequest("invalid holiday type")
}

func holidayCacheKey(year int) string {
	return fmt.Sprintf("schedule:holidays:%d", year)
}
