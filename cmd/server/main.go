package main

import (
	"log"

	"go.uber.org/zap"

	"hrms-backend/config"
	"hrms-backend/internal/database"
	"hrms-backend/internal/logger"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
	"hrms-backend/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// The cache is best effort: when redis is unreachable the API serves
	// everything from the database.
	cache := service.Cache(service.NopCache{})
	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		cache = service.NewRedisCache(rdb)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT)

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	deps := appDeps{
		cfg:        cfg,
		logger:     zapLogger,
		db:         db,
		rdb:        rdb,
		jwt:        jwtManager,
		users:      userRepo,
		auth:       service.NewAuthService(userRepo, employeeRepo, jwtManager),
		employee:   service.NewEmployeeService(employeeRepo, userRepo, leaveRepo),
		leave:      service.NewLeaveService(leaveRepo, cache),
		permission: service.NewPermissionService(permissionRepo),
		attendance: service.NewAttendanceService(attendanceRepo),
		expense:    service.NewExpenseService(expenseRepo, cache),
		schedule:   service.NewScheduleService(scheduleRepo, employeeRepo, cache),
	}

	r, err := newRouter(deps)
	if err != nil {
		zapLogger.Fatal("failed to build router", zap.Error(err))
	}

	zapLogger.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
