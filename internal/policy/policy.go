// Package policy centralizes every role/ownership authorization decision.
// Handlers never compare role names directly.
package policy

import "hrms-backend/internal/models"

type Action string

const (
	EmployeeManage    Action = "employee.manage"
	EmployeeView      Action = "employee.view"
	LeaveViewAll      Action = "leave.view_all"
	LeaveView         Action = "leave.view"
	LeaveDecide       Action = "leave.decide"
	PermissionViewAll Action = "permission.view_all"
	PermissionDecide  Action = "permission.decide"
	AttendanceViewAll Action = "attendance.view_all"
	ExpenseViewAll    Action = "expense.view_all"
	ExpenseView       Action = "expense.view"
	ExpenseDecide     Action = "expense.decide"
	ExpensePay        Action = "expense.pay"
	ScheduleManage    Action = "schedule.manage"
	HolidayManage     Action = "holiday.manage"
)

var allowed = map[Action][]string{
	EmployeeManage:    {models.RoleSuperAdmin, models.RoleAdmin},
	EmployeeView:      {models.RoleSuperAdmin, models.RoleAdmin, models.RoleHR},
	LeaveViewAll:      {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager, models.RoleHR},
	LeaveView:         {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager, models.RoleHR},
	LeaveDecide:       {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	PermissionViewAll: {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	PermissionDecide:  {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	AttendanceViewAll: {models.RoleSuperAdmin, models.RoleAdmin},
	ExpenseViewAll:    {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	ExpenseView:       {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	ExpenseDecide:     {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	ExpensePay:        {models.RoleSuperAdmin, models.RoleAdmin},
	ScheduleManage:    {models.RoleSuperAdmin, models.RoleAdmin},
	HolidayManage:     {models.RoleSuperAdmin, models.RoleAdmin},
}

// Can reports whether a role may perform an action. Ownership grants access
// for the *.view actions regardless of role: an employee always sees their
// own records.
func Can(role string, action Action, owner bool) bool {
	if owner {
		switch action {
		case EmployeeView, LeaveView, ExpenseView:
			return true
		}
	}

	for _, r := range allowed[action] {
		if r == role {
			return true
		}
	}
	return false
}
