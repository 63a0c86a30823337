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

type ScheduleHandler struct {
	schedules *service.ScheduleService
	logger    *zap.Logger
	dev       bool
}

func NewScheduleHandler(schedules *service.ScheduleService, logger *zap.Logger, dev bool) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger, dev: dev}
}

type CreateScheduleRequest struct {
	EmployeeID  int64  `json:"employee_id" binding:"required"`
	ShiftTypeID int64  `json:"shift_type_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	IsHoliday   bool   `json:"is_holiday"`
	Notes       string `json:"notes"`
}

type UpdateScheduleRequest struct {
	ShiftTypeID *int64  `json:"shift_type_id"`
	IsHoliday   *bool   `json:"is_holiday"`
	Notes       *string `json:"notes"`
}

type CreateHolidayRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateHolidayRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

type ListSchedulesQuery struct {
	PageQuery
	EmployeeID  *int64 `form:"employee_id"`
	ShiftTypeID *int64 `form:"shift_type_id"`
	From        string `form:"from"`
	To          string `form:"to"`
}

type MyScheduleQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type ListHolidaysQuery struct {
	Year int    `form:"year"`
	Type string `form:"type"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ScheduleManage, false) {
		respondForbidden(c)
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	schedule, err := h.schedules.Create(c.Request.Context(), service.CreateScheduleInput{
		EmployeeID:  req.EmployeeID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		IsHoliday:   req.IsHoliday,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Schedule created successfully", schedule))
}

func (h *ScheduleHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ScheduleManage, false) {
		respondForbidden(c)
		return
	}

	var query ListSchedulesQuery
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

	schedules, total, err := h.schedules.List(c.Request.Context(), repository.ScheduleFilter{
		EmployeeID:  query.EmployeeID,
		ShiftTypeID: query.ShiftTypeID,
		From:        from,
		To:          to,
		Offset:      query.Offset(),
		Limit:       query.Limit,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Schedules retrieved successfully",
		schedules,
		NewPagination(query.Page, query.Limit, total),
	))
}

func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var query MyScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}

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

	schedules, err := h.schedules.MySchedule(c.Request.Context(), employee.ID, timeOrZero(from), timeOrZero(to))
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Schedule retrieved successfully", schedules))
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ScheduleManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	schedule, err := h.schedules.Update(c.Request.Context(), id, service.UpdateScheduleInput{
		ShiftTypeID: req.ShiftTypeID,
		IsHoliday:   req.IsHoliday,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Schedule updated successfully", schedule))
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ScheduleManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Schedule deleted successfully", nil))
}

func (h *ScheduleHandler) ShiftTypes(c *gin.Context) {
	types, err := h.schedules.ShiftTypes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Shift types retrieved successfully", types))
}

func (h *ScheduleHandler) CreateHoliday(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.HolidayManage, false) {
		respondForbidden(c)
		return
	}

	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	holiday, err := h.schedules.CreateHoliday(c.Request.Context(), service.CreateHolidayInput{
		Name:        req.Name,
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Holiday created successfully", holiday))
}

func (h *ScheduleHandler) Holidays(c *gin.Context) {
	var query ListHolidaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}

	holidays, err := h.schedules.Holidays(c.Request.Context(), repository.HolidayFilter{
		Year: query.Year,
		Type: query.Type,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Holidays retrieved successfully", holidays))
}

func (h *ScheduleHandler) UpdateHoliday(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.HolidayManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req UpdateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	holiday, err := h.schedules.UpdateHoliday(c.Request.Context(), id, service.UpdateHolidayInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Holiday updated successfully", holiday))
}

func (h *ScheduleHandler) DeleteHoliday(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.HolidayManage, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	if err := h.schedules.DeleteHoliday(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Holiday deleted successfully", nil))
}
