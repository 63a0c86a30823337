package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms-backend/internal/middleware"
	"hrms-backend/internal/policy"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/service"
)

type AttendanceHandler struct {
	attendances *service.AttendanceService
	logger      *zap.Logger
	dev         bool
}

func NewAttendanceHandler(attendances *service.AttendanceService, logger *zap.Logger, dev bool) *AttendanceHandler {
	return &AttendanceHandler{attendances: attendances, logger: logger, dev: dev}
}

type ClockRequest struct {
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type ListAttendanceQuery struct {
	PageQuery
	EmployeeID *int64 `form:"employee_id"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type MonthlyReportQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required"`
}

func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var req ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	attendance, err := h.attendances.ClockIn(c.Request.Context(), employee.ID, c.ClientIP(), req.Location, req.Notes)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Clocked in successfully", attendance))
}

func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var req ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	attendance, err := h.attendances.ClockOut(c.Request.Context(), employee.ID, c.ClientIP(), req.Location)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Clocked out successfully", attendance))
}

func (h *AttendanceHandler) Today(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	attendance, err := h.attendances.Today(c.Request.Context(), employee.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	if attendance == nil {
		c.JSON(http.StatusOK, successResponse("No attendance record for today", nil))
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance retrieved successfully", attendance))
}

func (h *AttendanceHandler) List(c *gin.Context) {
	var query ListAttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	from, err := parseOptionalDate(query.From)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	to, err := parseOptionalDate(query.To)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	user := middleware.CurrentUser(c)
	filter := repository.AttendanceFilter{
		EmployeeID: query.EmployeeID,
		Status:     query.Status,
		From:       from,
		To:         to,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	if !policy.Can(user.Role.Name, policy.AttendanceViewAll, false) {
		employee := middleware.CurrentEmployee(c)
		if employee == nil {
			respondForbidden(c)
			return
		}
		filter.EmployeeID = &employee.ID
	}

	attendances, total, err := h.attendances.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Attendance records retrieved successfully",
		attendances,
		NewPagination(query.Page, query.Limit, total),
	))
}

// History always scopes to the caller's own records.
func (h *AttendanceHandler) History(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var query ListAttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	from, err := parseOptionalDate(query.From)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	to, err := parseOptionalDate(query.To)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	filter := repository.AttendanceFilter{
		EmployeeID: &employee.ID,
		Status:     query.Status,
		From:       from,
		To:         to,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	attendances, total, err := h.attendances.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Attendance records retrieved successfully",
		attendances,
		NewPagination(query.Page, query.Limit, total),
	))
}

// ListAll is the administrative listing across employees.
func (h *AttendanceHandler) ListAll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.AttendanceViewAll, false) {
		respondForbidden(c)
		return
	}
	h.List(c)
}

// MonthlyReport summarizes the caller's own month unless the caller may
// view all attendance and names another employee.
func (h *AttendanceHandler) MonthlyReport(c *gin.Context) {
	var query MonthlyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	employee := middleware.CurrentEmployee(c)

	employeeID := int64(0)
	if employee != nil {
		employeeID = employee.ID
	}
	if raw := c.Query("employee_id"); raw != "" {
		if !policy.Can(user.Role.Name, policy.AttendanceViewAll, false) {
			respondForbidden(c)
			return
		}
		id, err := parseQueryID(raw)
		if err != nil {
			respondError(c, h.logger, h.dev, err)
			return
		}
		employeeID = id
	}
	if employeeID == 0 {
		respondForbidden(c)
		return
	}

	report, err := h.attendances.MonthlyReport(c.Request.Context(), employeeID, query.Year, query.Month)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Monthly report generated successfully", report))
}
