// Command seed populates the reference tables and a default admin account.
// It is idempotent; rerunning it never duplicates rows.
package main

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms-backend/config"
	"hrms-backend/internal/database"
	"hrms-backend/internal/models"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := seedLeaveTypes(db); err != nil {
		log.Fatalf("failed to seed leave types: %v", err)
	}
	if err := seedExpenseCategories(db); err != nil {
		log.Fatalf("failed to seed expense categories: %v", err)
	}
	if err := seedShiftTypes(db); err != nil {
		log.Fatalf("failed to seed shift types: %v", err)
	}
	if err := seedAdmin(db); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	log.Println("seed completed")
}

func seedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Name: models.RoleSuperAdmin, Description: "Full system access"},
		{Name: models.RoleAdmin, Description: "Administrative access"},
		{Name: models.RoleManager, Description: "Approves team requests"},
		{Name: models.RoleHR, Description: "Human resources access"},
		{Name: models.RoleEmployee, Description: "Self-service access"},
	}
	for _, role := range roles {
		if err := db.Where(models.Role{Name: role.Name}).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedLeaveTypes(db *gorm.DB) error {
	types := []models.LeaveType{
		{Name: "Annual Leave", DaysPerYear: decimal.NewFromInt(20), IsPaid: true, RequiresApproval: true},
		{Name: "Sick Leave", DaysPerYear: decimal.NewFromInt(10), IsPaid: true, RequiresApproval: true},
		{Name: "Casual Leave", DaysPerYear: decimal.NewFromInt(7), IsPaid: true, RequiresApproval: true},
		{Name: "Unpaid Leave", DaysPerYear: decimal.NewFromInt(30), IsPaid: false, RequiresApproval: true},
		{Name: "Maternity Leave", DaysPerYear: decimal.NewFromInt(90), IsPaid: true, RequiresApproval: true},
		{Name: "Paternity Leave", DaysPerYear: decimal.NewFromInt(14), IsPaid: true, RequiresApproval: true},
	}
	for _, leaveType := range types {
		if err := db.Where(models.LeaveType{Name: leaveType.Name}).
			FirstOrCreate(&leaveType).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedExpenseCategories(db *gorm.DB) error {
	maxTravel := decimal.NewFromInt(1000)
	maxMeals := decimal.NewFromInt(100)
	maxSupplies := decimal.NewFromInt(500)

	categories := []models.ExpenseCategory{
		{Name: "Travel", MaxAmount: &maxTravel, RequiresProof: true},
		{Name: "Meals", MaxAmount: &maxMeals, RequiresProof: true},
		{Name: "Office Supplies", MaxAmount: &maxSupplies, RequiresProof: true},
		{Name: "Training", RequiresProof: true},
		{Name: "Other", RequiresProof: false},
	}
	for _, category := range categories {
		if err := db.Where(models.ExpenseCategory{Name: category.Name}).
			FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedShiftTypes(db *gorm.DB) error {
	types := []models.ShiftType{
		{Name: "Morning", StartTime: "09:00", EndTime: "17:00", WorkingHours: decimal.NewFromInt(8), GracePeriodMinutes: 15},
		{Name: "Evening", StartTime: "14:00", EndTime: "22:00", WorkingHours: decimal.NewFromInt(8), GracePeriodMinutes: 15},
		{Name: "Night", StartTime: "22:00", EndTime: "06:00", WorkingHours: decimal.NewFromInt(8), GracePeriodMinutes: 15},
	}
	for _, shiftType := range types {
		if err := db.Where(models.ShiftType{Name: shiftType.Name}).
			FirstOrCreate(&shiftType).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the bootstrap Super Admin with an employee profile and
// current-year leave balances.
func seedAdmin(db *gorm.DB) error {
	var role models.Role
	if err := db.Where("name = ?", models.RoleSuperAdmin).First(&role).Error; err != nil {
		return err
	}

	var existing models.User
	err := db.Where("email = ?", "admin@example.com").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		employee := models.Employee{
			UserID:         user.ID,
			EmployeeCode:   "EMP001",
			FirstName:      "System",
			LastName:       "Administrator",
			Department:     "Administration",
			Designation:    "Administrator",
			DateOfJoining:  time.Now().UTC().Truncate(24 * time.Hour),
			EmploymentType: "full-time",
			Status:         models.EmployeeActive,
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}

		var leaveTypes []models.LeaveType
		if err := tx.Find(&leaveTypes).Error; err != nil {
			return err
		}

		year := time.Now().UTC().Year()
		for _, leaveType := range leaveTypes {
			balance := models.LeaveBalance{
				EmployeeID:    employee.ID,
				LeaveTypeID:   leaveType.ID,
				Year:          year,
				TotalDays:     leaveType.DaysPerYear,
				UsedDays:      decimal.Zero,
				RemainingDays: leaveType.DaysPerYear,
			}
			if err := tx.Create(&balance).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
