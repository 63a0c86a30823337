package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
)

type CreateEmployeeInput struct {
	Email        string
	Password     string
	RoleName     string
	EmployeeCode string
	FirstName    string
	LastName     string
	DateOfBirth  *time.Time
	Gender       string
	Phone        string
	Address      string
	City         string
	State        string
	Country      string
	PostalCode   string

	Department     string
	Designation    string
	DateOfJoining  time.Time
	EmploymentType string
	Salary         decimal.Decimal
	ManagerID      *int64

	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string
}

// UpdateEmployeeInput carries admin-editable fields. Nil pointers mean
// "leave unchanged".
type UpdateEmployeeInput struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Gender         *string
	Phone          *string
	Address        *string
	City           *string
	State          *string
	Country        *string
	PostalCode     *string
	Department     *string
	Designation    *string
	EmploymentType *string
	Status         *string
	Salary         *decimal.Decimal
	ManagerID      *int64
	DateOfLeaving  *time.Time

	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
}

// UpdateProfileInput is the subset an employee may change on their own
// record, contact details only.
type UpdateProfileInput struct {
	Phone      *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string

	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
}

type EmployeeService struct {
	employees repository.EmployeeRepository
	users     repository.UserRepository
	leaves    repository.LeaveRepository
	now       func() time.Time
}

func NewEmployeeService(employees repository.EmployeeRepository, users repository.UserRepository, leaves repository.LeaveRepository) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		users:     users,
		leaves:    leaves,
		now:       time.Now,
	}
}

func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.employees.FindByCode(ctx, in.EmployeeCode); err == nil {
		return nil, apperror.Conflict("employee code is already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	roleName := in.RoleName
	if roleName == "" {
		roleName = models.RoleEmployee
	}
	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("invalid role")
		}
		return nil, err
	}

	if in.ManagerID != nil {
		if _, err := s.employees.FindByID(ctx, *in.ManagerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("manager not found")
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	employee := &models.Employee{
		EmployeeCode:   in.EmployeeCode,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		Phone:          in.Phone,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		PostalCode:     in.PostalCode,
		Department:     in.Department,
		Designation:    in.Designation,
		DateOfJoining:  in.DateOfJoining,
		EmploymentType: in.EmploymentType,
		Status:         models.EmployeeActive,
		Salary:         in.Salary,
		ManagerID:      in.ManagerID,

		EmergencyContactName:     in.EmergencyContactName,
		EmergencyContactPhone:    in.EmergencyContactPhone,
		EmergencyContactRelation: in.EmergencyContactRelation,
	}
	if employee.EmploymentType == "" {
		employee.EmploymentType = "full-time"
	}

	if err := s.employees.CreateWithUser(ctx, user, employee); err != nil {
		return nil, err
	}

	if err := s.provisionBalances(ctx, employee.ID); err != nil {
		return nil, err
	}

	return s.employees.FindByID(ctx, employee.ID)
}

// provisionBalances opens the current-year leave balances for a new
// employee, one row per leave type at its full annual entitlement.
func (s *EmployeeService) provisionBalances(ctx context.Context, employeeID int64) error {
	types, err := s.leaves.ListTypes(ctx)
	if err != nil {
		return err
	}

	year := s.now().UTC().Year()
	for _, leaveType := range types {
		balance := &models.LeaveBalance{
			EmployeeID:    employeeID,
			LeaveTypeID:   leaveType.ID,
			Year:          year,
			TotalDays:     leaveType.DaysPerYear,
			UsedDays:      decimal.Zero,
			RemainingDays: leaveType.DaysPerYear,
		}
		if err := s.leaves.CreateBalance(ctx, balance); err != nil {
			return err
		}
	}
	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	return s.find(ctx, id)
}

func (s *EmployeeService) GetByUserID(ctx context.Context, userID int64) (*models.Employee, error) {
	employee, err := s.employees.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee profile not found")
		}
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context, filter repository.EmployeeFilter) ([]models.Employee, int64, error) {
	return s.employees.List(ctx, filter)
}

func (s *EmployeeService) Update(ctx context.Context, id int64, in UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ManagerID != nil {
		if err := s.checkManagerChain(ctx, id, *in.ManagerID); err != nil {
			return nil, err
		}
		employee.ManagerID = in.ManagerID
	}

	applyString(&employee.FirstName, in.FirstName)
	applyString(&employee.LastName, in.LastName)
	applyString(&employee.Gender, in.Gender)
	applyString(&employee.Phone, in.Phone)
	applyString(&employee.Address, in.Address)
	applyString(&employee.City, in.City)
	applyString(&employee.State, in.State)
	applyString(&employee.Country, in.Country)
	applyString(&employee.PostalCode, in.PostalCode)
	applyString(&employee.Department, in.Department)
	applyString(&employee.Designation, in.Designation)
	applyString(&employee.EmploymentType, in.EmploymentType)
	applyString(&employee.EmergencyContactName, in.EmergencyContactName)
	applyString(&employee.EmergencyContactPhone, in.EmergencyContactPhone)
	applyString(&employee.EmergencyContactRelation, in.EmergencyContactRelation)

	if in.DateOfBirth != nil {
		employee.DateOfBirth = in.DateOfBirth
	}
	if in.DateOfLeaving != nil {
		employee.DateOfLeaving = in.DateOfLeaving
	}
	if in.Salary != nil {
		employee.Salary = *in.Salary
	}
	if in.Status != nil {
		switch *in.Status {
		case models.EmployeeActive, models.EmployeeInactive, models.EmployeeTerminated:
			employee.Status = *in.Status
		default:
			return nil, apperror.BadRequest("invalid employee status")
		}
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	return s.employees.FindByID(ctx, id)
}

func (s *EmployeeService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*models.Employee, error) {
	employee, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyString(&employee.Phone, in.Phone)
	applyString(&employee.Address, in.Address)
	applyString(&employee.City, in.City)
	applyString(&employee.State, in.State)
	applyString(&employee.Country, in.Country)
	applyString(&employee.PostalCode, in.PostalCode)
	applyString(&employee.EmergencyContactName, in.EmergencyContactName)
	applyString(&employee.EmergencyContactPhone, in.EmergencyContactPhone)
	applyString(&employee.EmergencyContactRelation, in.EmergencyContactRelation)

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	return s.employees.FindByID(ctx, employee.ID)
}

// Delete soft-deletes the employee record and deactivates the linked user
// account so the credentials stop working immediately.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	employee, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.employees.Delete(ctx, employee)
}

func (s *EmployeeService) find(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found")
		}
		return nil, err
	}
	return employee, nil
}

// checkManagerChain walks up the proposed manager's reporting line and
// rejects assignments that would cycle back to the employee.
func (s *EmployeeService) checkManagerChain(ctx context.Context, employeeID, managerID int64) error {
	if managerID == employeeID {
		return apperror.BadRequest("an employee cannot be their own manager")
	}

	const maxDepth = 32
	current := managerID
	for i := 0; i < maxDepth; i++ {
		manager, err := s.employees.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("manager not found")
			}
			return err
		}
		if manager.ManagerID == nil {
			return nil
		}
		if *manager.ManagerID == employeeID {
			return apperror.BadRequest("manager assignment would create a reporting cycle")
		}
		current = *manager.ManagerID
	}
	return apperror.BadRequest("reporting chain is too deep")
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
