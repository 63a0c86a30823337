package policy

import (
	"testing"

	"hrms-backend/internal/models"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		action Action
		owner  bool
		want   bool
	}{
		{"admin manages employees", models.RoleAdmin, EmployeeManage, false, true},
		{"hr cannot manage employees", models.RoleHR, EmployeeManage, false, false},
		{"manager decides leaves", models.RoleManager, LeaveDecide, false, true},
		{"hr cannot decide leaves", models.RoleHR, LeaveDecide, false, false},
		{"employee views own leave", models.RoleEmployee, LeaveView, true, true},
		{"employee cannot view others leave", models.RoleEmployee, LeaveView, false, false},
		{"employee views own expense", models.RoleEmployee, ExpenseView, true, true},
		{"manager cannot pay expenses", models.RoleManager, ExpensePay, false, false},
		{"admin pays expenses", models.RoleAdmin, ExpensePay, false, true},
		{"ownership does not grant decide", models.RoleEmployee, LeaveDecide, true, false},
		{"ownership does not grant view_all", models.RoleEmployee, LeaveViewAll, true, false},
		{"super admin manages holidays", models.RoleSuperAdmin, HolidayManage, false, true},
		{"unknown role denied", "Contractor", EmployeeView, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.action, tt.owner); got != tt.want {
				t.Errorf("Can(%q, %q, %v) = %v, want %v", tt.role, tt.action, tt.owner, got, tt.want)
			}
		})
	}
}
