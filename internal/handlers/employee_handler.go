package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hrms-backend/internal/middleware"
	"hrms-backend/internal/policy"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
)

type EmployeeHandler struct {
	employees *service.EmployeeService
	logger    *zap.Logger
	dev       bool
}

func NewEmployeeHandler(employees *service.EmployeeService, logger *zap.Logger, dev bool) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, logger: logger, dev: dev}
}

type CreateEmployeeRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role"`
	EmployeeCode string `json:"employee_code" binding:"required"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postal_code"`

	Department     string          `json:"department"`
	Designation    string          `json:"designation"`
	DateOfJoining  string          `json:"date_of_joining" binding:"required"`
	EmploymentType string          `json:"employment_type"`
	Salary         decimal.Decimal `json:"salary"`
	ManagerID      *int64          `json:"manager_id"`

	EmergencyContactName     string `json:"emergency_contact_name"`
	EmergencyContactPhone    string `json:"emergency_contact_phone"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`
}

type UpdateEmployeeRequest struct {
	FirstName      *string          `json:"first_name"`
	LastName       *string          `json:"last_name"`
	DateOfBirth    *string          `json:"date_of_birth"`
	Gender         *string          `json:"gender"`
	Phone          *string          `json:"phone"`
	Address        *string          `json:"address"`
	City           *string          `json:"city"`
	State          *string          `json:"state"`
	Country        *string          `json:"country"`
	PostalCode     *string          `json:"postal_code"`
	Department     *string          `json:"department"`
	Designation    *string          `json:"designation"`
	EmploymentType *string          `json:"employment_type"`
	Status         *string          `json:"status"`
	Salary         *decimal.Decimal `json:"salary"`
	ManagerID      *int64           `json:"manager_id"`
	DateOfLeaving  *string          `json:"date_of_leaving"`

	EmergencyContactName     *string `json:"emergency_contact_name"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone"`
	EmergencyContactRelation *string `json:"emergency_contact_relation"`
}

type UpdateProfileRequest struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`

	EmergencyContactName     *string `json:"emergency_contact_name"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone"`
	EmergencyContactRelation *string `json:"emergency_contact_relation"`
}

type ListEmployeesQuery struct {
	PageQuery
	Search         string `form:"search"`
	Department     string `form:"department"`
	Status         string `form:"status"`
	EmploymentType string `form:"employment_type"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.EmployeeManage, false) {
		respondForbidden(c)
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	joining, err := parseDate(req.DateOfJoining)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	birth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	employee, err := h.employees.Create(c.Request.Context(), service.CreateEmployeeInput{
		Email:        req.Email,
		Password:     req.Password,
		RoleName:     req.Role,
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  birth,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		PostalCode:   req.PostalCode,

		Department:     req.Department,
		Designation:    req.Designation,
		DateOfJoining:  joining,
		EmploymentType: req.EmploymentType,
		Salary:         req.Salary,
		ManagerID:      req.ManagerID,

		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Employee created successfully", employee))
}

func (h *EmployeeHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.EmployeeView, false) {
		respondForbidden(c)
		return
	}

	var query ListEmployeesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	employees, total, err := h.employees.List(c.Request.Context(), repository.EmployeeFilter{
		Search:         query.Search,
		Department:     query.Department,
		Status:         query.Status,
		EmploymentType: query.EmploymentType,
		Offset:         query.Offset(),
		Limit:          query.Limit,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Employees retrieved successfully",
		employees,
		NewPagination(query.Page, query.Limit, total),
	))
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	user := middleware.CurrentUser(c)
	owner := user.Employee != nil && user.Employee.ID == id
	if !policy.Can(user.Role.Name, policy.EmployeeView, owner) {
		respondForbidden(c)
		return
	}

	employee, err := h.employees.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee retrieved successfully", employee))
}

// Me returns the caller's own employee profile.
func (h *EmployeeHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	employee, err := h.employees.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", employee))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.EmployeeManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	in := service.UpdateEmployeeInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		PostalCode:     req.PostalCode,
		Department:     req.Department,
		Designation:    req.Designation,
		EmploymentType: req.EmploymentType,
		Status:         req.Status,
		Salary:         req.Salary,
		ManagerID:      req.ManagerID,

		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
	}
	if req.DateOfBirth != nil {
		birth, err := parseDate(*req.DateOfBirth)
		if err != nil {
			respondError(c, h.logger, h.dev, err)
			return
		}
		in.DateOfBirth = &birth
	}
	if req.DateOfLeaving != nil {
		leaving, err := parseDate(*req.DateOfLeaving)
		if err != nil {
			respondError(c, h.logger, h.dev, err)
			return
		}
		in.DateOfLeaving = &leaving
	}

	employee, err := h.employees.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee updated successfully", employee))
}

func (h *EmployeeHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	employee, err := h.employees.UpdateProfile(c.Request.Context(), user.ID, service.UpdateProfileInput{
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,

		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Profile updated successfully", employee))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.EmployeeManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	if err := h.employees.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee deleted successfully", nil))
}
