package main

import (
	"testing"

	"go.uber.org/zap"

	"hrms-backend/config"
)

func TestRouterExposesClientPaths(t *testing.T) {
	r, err := newRouter(appDeps{
		cfg:    config.Config{AppEnv: "development", CORSOrigin: "*"},
		logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	// The paths the mobile client binds to.
	want := []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/refresh",
		"POST /api/auth/logout",
		"GET /api/auth/profile",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",
		"GET /api/employees/me",
		"PUT /api/employees/me",
		"POST /api/employees",
		"GET /api/employees",
		"GET /api/employees/:id",
		"PUT /api/employees/:id",
		"DELETE /api/employees/:id",
		"POST /api/attendance/clock-in",
		"POST /api/attendance/clock-out",
		"GET /api/attendance/today",
		"GET /api/attendance/history",
		"GET /api/attendance/all",
		"GET /api/attendance/monthly-report",
		"POST /api/leaves",
		"GET /api/leaves/my-leaves",
		"GET /api/leaves/balance",
		"DELETE /api/leaves/:id",
		"GET /api/leaves",
		"PUT /api/leaves/:id/approve",
		"PUT /api/leaves/:id/reject",
		"POST /api/permissions",
		"GET /api/permissions/my-permissions",
		"GET /api/permissions",
		"PUT /api/permissions/:id/approve",
		"PUT /api/permissions/:id/reject",
		"POST /api/expenses",
		"GET /api/expenses/my-expenses",
		"POST /api/expenses/:id/upload",
		"GET /api/expenses",
		"GET /api/expenses/:id",
		"PUT /api/expenses/:id/approve",
		"PUT /api/expenses/:id/reject",
		"PUT /api/expenses/:id/mark-paid",
		"GET /api/schedules/my-schedule",
		"POST /api/schedules",
		"GET /api/schedules",
		"PUT /api/schedules/:id",
		"DELETE /api/schedules/:id",
		"POST /api/schedules/holidays",
		"GET /api/schedules/holidays",
		"PUT /api/schedules/holidays/:id",
		"DELETE /api/schedules/holidays/:id",
	}
	for _, path := range want {
		if !registered[path] {
			t.Errorf("route %s not registered", path)
		}
	}
}
