package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type stubAttendanceRepo struct {
	records map[string]*models.Attendance
	nextID  int64
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]*models.Attendance)}
}

func attendanceKey(employeeID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", employeeID, date.Format("2006-01-02"))
}

func (r *stubAttendanceRepo) Create(ctx context.Context, attendance *models.Attendance) error {
	r.nextID++
	attendance.ID = r.nextID
	copied := *attendance
	r.records[attendanceKey(attendance.EmployeeID, attendance.Date)] = &copied
	return nil
}

func (r *stubAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.Attendance, error) {
	attendance, ok := r.records[attendanceKey(employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attendance
	return &copied, nil
}

func (r *stubAttendanceRepo) List(ctx context.Context, filter repository.AttendanceFilter) ([]models.Attendance, int64, error) {
	var out []models.Attendance
	for _, attendance := range r.records {
		out = append(out, *attendance)
	}
	return out, int64(len(out)), nil
}

func (r *stubAttendanceRepo) ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, attendance := range r.records {
		if attendance.EmployeeID == employeeID && !attendance.Date.Before(from) && !attendance.Date.After(to) {
			out = append(out, *attendance)
		}
	}
	return out, nil
}

func (r *stubAttendanceRepo) Update(ctx context.Context, attendance *models.Attendance) error {
	copied := *attendance
	r.records[attendanceKey(attendance.EmployeeID, attendance.Date)] = &copied
	return nil
}

func newAttendanceFixture(now func() time.Time) *AttendanceService {
	svc := NewAttendanceService(newStubAttendanceRepo())
	svc.now = now
	return svc
}

func TestClockInOncePerDay(t *testing.T) {
	svc := newAttendanceFixture(fixedNow)

	attendance, err := svc.ClockIn(context.Background(), 1, "203.0.113.7", "office", "")
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if attendance.Status != models.AttendancePresent {
		t.Errorf("status = %q, want present", attendance.Status)
	}

	_, err = svc.ClockIn(context.Background(), 1, "203.0.113.7", "office", "")
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict on second clock-in", err)
	}
}

func TestClockOutComputesWorkingHours(t *testing.T) {
	current := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	svc := newAttendanceFixture(func() time.Time { return current })

	if _, err := svc.ClockIn(context.Background(), 1, "203.0.113.7", "office", ""); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	current = time.Date(2025, time.June, 15, 17, 15, 0, 0, time.UTC)
	attendance, err := svc.ClockOut(context.Background(), 1, "203.0.113.7", "office")
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if !attendance.WorkingHours.Equal(decimalFromStr(t, "8.25")) {
		t.Errorf("working_hours = %s, want 8.25", attendance.WorkingHours)
	}
	if attendance.ClockOut == nil {
		t.Errorf("clock_out not recorded")
	}
}

func TestClockOutWithoutClockIn(t *testing.T) {
	svc := newAttendanceFixture(fixedNow)

	_, err := svc.ClockOut(context.Background(), 1, "203.0.113.7", "office")
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict without a clock-in record", err)
	}
}

func TestDoubleClockOut(t *testing.T) {
	svc := newAttendanceFixture(fixedNow)

	if _, err := svc.ClockIn(context.Background(), 1, "203.0.113.7", "office", ""); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if _, err := svc.ClockOut(context.Background(), 1, "203.0.113.7", "office"); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	_, err := svc.ClockOut(context.Background(), 1, "203.0.113.7", "office")
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict on second clock-out", err)
	}
}

func TestTodayWithoutRecord(t *testing.T) {
	svc := newAttendanceFixture(fixedNow)

	attendance, err := svc.Today(context.Background(), 1)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if attendance != nil {
		t.Errorf("expected nil record for a day without attendance")
	}
}

func TestMonthlyReport(t *testing.T) {
	current := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	svc := newAttendanceFixture(func() time.Time { return current })

	for day := 2; day <= 4; day++ {
		current = time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC)
		if _, err := svc.ClockIn(context.Background(), 1, "203.0.113.7", "office", ""); err != nil {
			t.Fatalf("ClockIn day %d: %v", day, err)
		}
		current = time.Date(2025, time.June, day, 17, 0, 0, 0, time.UTC)
		if _, err := svc.ClockOut(context.Background(), 1, "203.0.113.7", "office"); err != nil {
			t.Fatalf("ClockOut day %d: %v", day, err)
		}
	}

	report, err := svc.MonthlyReport(context.Background(), 1, 2025, 6)
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if report.Summary.TotalDays != 3 {
		t.Errorf("total days = %d, want 3", report.Summary.TotalDays)
	}
	if !report.Summary.TotalWorkingHours.Equal(decimalFromStr(t, "24")) {
		t.Errorf("total hours = %s, want 24", report.Summary.TotalWorkingHours)
	}
	if !report.Summary.AverageWorkingHours.Equal(decimalFromStr(t, "8")) {
		t.Errorf("average hours = %s, want 8", report.Summary.AverageWorkingHours)
	}

	if _, err := svc.MonthlyReport(context.Background(), 1, 2025, 13); apperror.GetCode(err) != apperror.CodeValidation {
		t.Errorf("err = %v, want validation for month 13", err)
	}
}
