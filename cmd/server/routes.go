package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hrms-backend/config"
	"hrms-backend/internal/handlers"
	"hrms-backend/internal/middleware"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
	"hrms-backend/internal/utils"
)

type appDeps struct {
	cfg    config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	jwt    *utils.JWTManager
	users  repository.UserRepository

	auth       *service.AuthService
	employee   *service.EmployeeService
	leave      *service.LeaveService
	permission *service.PermissionService
	attendance *service.AttendanceService
	expense    *service.ExpenseService
	schedule   *service.ScheduleService
}

func newRouter(deps appDeps) (*gin.Engine, error) {
	if !deps.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	dev := deps.cfg.IsDevelopment()
	authHandler := handlers.NewAuthHandler(deps.auth, deps.logger, dev)
	employeeHandler := handlers.NewEmployeeHandler(deps.employee, deps.logger, dev)
	leaveHandler := handlers.NewLeaveHandler(deps.leave, deps.logger, dev)
	permissionHandler := handlers.NewPermissionHandler(deps.permission, deps.logger, dev)
	attendanceHandler := handlers.NewAttendanceHandler(deps.attendance, deps.logger, dev)
	expenseHandler := handlers.NewExpenseHandler(deps.expense, deps.logger, dev)
	scheduleHandler := handlers.NewScheduleHandler(deps.schedule, deps.logger, dev)

	r.GET("/health", healthHandler(deps.db, deps.rdb))

	authLimit, err := middleware.RateLimit("10-M")
	if err != nil {
		return nil, err
	}

	// --- Public API Group ---
	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api")
	protected.Use(middleware.Auth(deps.jwt, deps.users))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/profile", authHandler.Profile)
			auth.PUT("/change-password", authHandler.ChangePassword)
		}

		protected.GET("/roles", authHandler.Roles)

		employees := protected.Group("/employees")
		{
			employees.POST("", employeeHandler.Create)
			employees.GET("", employeeHandler.List)
			employees.GET("/me", employeeHandler.Me)
			employees.PUT("/me", employeeHandler.UpdateMe)
			employees.GET("/:id", employeeHandler.Get)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
		}

		leaves := protected.Group("/leaves")
		{
			leaves.POST("", leaveHandler.Apply)
			leaves.GET("", leaveHandler.List)
			leaves.GET("/my-leaves", leaveHandler.ListMine)
			leaves.GET("/types", leaveHandler.Types)
			leaves.GET("/balance", leaveHandler.Balances)
			leaves.GET("/balances", leaveHandler.Balances)
			leaves.GET("/:id", leaveHandler.Get)
			leaves.PUT("/:id/approve", leaveHandler.Approve)
			leaves.PUT("/:id/reject", leaveHandler.Reject)
			leaves.PUT("/:id/cancel", leaveHandler.Cancel)
			leaves.DELETE("/:id", leaveHandler.Cancel)
		}

		permissions := protected.Group("/permissions")
		{
			permissions.POST("", permissionHandler.Request)
			permissions.GET("", permissionHandler.List)
			permissions.GET("/my-permissions", permissionHandler.ListMine)
			permissions.PUT("/:id/approve", permissionHandler.Approve)
			permissions.PUT("/:id/reject", permissionHandler.Reject)
			permissions.PUT("/:id/cancel", permissionHandler.Cancel)
		}

		attendance := protected.Group("/attendance")
		{
			attendance.POST("/clock-in", attendanceHandler.ClockIn)
			attendance.POST("/clock-out", attendanceHandler.ClockOut)
			attendance.GET("/today", attendanceHandler.Today)
			attendance.GET("/history", attendanceHandler.History)
			attendance.GET("/all", attendanceHandler.ListAll)
			attendance.GET("", attendanceHandler.List)
			attendance.GET("/monthly-report", attendanceHandler.MonthlyReport)
			attendance.GET("/report", attendanceHandler.MonthlyReport)
		}

		expenses := protected.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Submit)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/my-expenses", expenseHandler.ListMine)
			expenses.GET("/categories", expenseHandler.Categories)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.POST("/:id/upload", expenseHandler.AttachReceipt)
			expenses.PUT("/:id/approve", expenseHandler.Approve)
			expenses.PUT("/:id/reject", expenseHandler.Reject)
			expenses.PUT("/:id/mark-paid", expenseHandler.MarkPaid)
			expenses.PUT("/:id/pay", expenseHandler.MarkPaid)
			expenses.PUT("/:id/receipt", expenseHandler.AttachReceipt)
		}

		schedules := protected.Group("/schedules")
		{
			schedules.POST("", scheduleHandler.Create)
			schedules.GET("", scheduleHandler.List)
			schedules.GET("/my-schedule", scheduleHandler.MySchedule)
			schedules.GET("/me", scheduleHandler.MySchedule)
			schedules.GET("/shift-types", scheduleHandler.ShiftTypes)
			schedules.PUT("/:id", scheduleHandler.Update)
			schedules.DELETE("/:id", scheduleHandler.Delete)

			holidays := schedules.Group("/holidays")
			{
				holidays.POST("", scheduleHandler.CreateHoliday)
				holidays.GET("", scheduleHandler.Holidays)
				holidays.PUT("/:id", scheduleHandler.UpdateHoliday)
				holidays.DELETE("/:id", scheduleHandler.DeleteHoliday)
			}
		}

		holidays := protected.Group("/holidays")
		{
			holidays.POST("", scheduleHandler.CreateHoliday)
			holidays.GET("", scheduleHandler.Holidays)
			holidays.PUT("/:id", scheduleHandler.UpdateHoliday)
			holidays.DELETE("/:id", scheduleHandler.DeleteHoliday)
		}
	}

	return r, nil
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		cacheStatus := "disabled"
		if rdb != nil {
			cacheStatus = "up"
			if err := rdb.Ping(ctx).Err(); err != nil {
				cacheStatus = "down"
			}
		}

		c.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"time":     time.Now().UTC(),
		})
	}
}
