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

type PermissionHandler struct {
	permissions *service.PermissionService
	logger      *zap.Logger
	dev         bool
}

func NewPermissionHandler(permissions *service.PermissionService, logger *zap.Logger, dev bool) *PermissionHandler {
	return &PermissionHandler{permissions: permissions, logger: logger, dev: dev}
}

type RequestPermissionRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type RejectPermissionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListPermissionsQuery struct {
	PageQuery
	EmployeeID *int64 `form:"employee_id"`
	Status     string `form:"status"`
	Date       string `form:"date"`
}

func (h *PermissionHandler) Request(c *gin.Context) {
	user := middleware.CurrentUser(c)
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var req RequestPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	permission, err := h.permissions.Request(c.Request.Context(), employee.ID, user.ID, service.RequestPermissionInput{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Permission request submitted successfully", permission))
}

func (h *PermissionHandler) List(c *gin.Context) {
	var query ListPermissionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	date, err := parseOptionalDate(query.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	user := middleware.CurrentUser(c)
	filter := repository.PermissionFilter{
		EmployeeID: query.EmployeeID,
		Status:     query.Status,
		Date:       date,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	if !policy.Can(user.Role.Name, policy.PermissionViewAll, false) {
		employee := middleware.CurrentEmployee(c)
		if employee == nil {
			respondForbidden(c)
			return
		}
		filter.EmployeeID = &employee.ID
	}

	permissions, total, err := h.permissions.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Permission requests retrieved successfully",
		permissions,
		NewPagination(query.Page, query.Limit, total),
	))
}

// ListMine always scopes to the caller's own requests.
func (h *PermissionHandler) ListMine(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var query ListPermissionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	date, err := parseOptionalDate(query.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	filter := repository.PermissionFilter{
		EmployeeID: &employee.ID,
		Status:     query.Status,
		Date:       date,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	permissions, total, err := h.permissions.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Permission requests retrieved successfully",
		permissions,
		NewPagination(query.Page, query.Limit, total),
	))
}

func (h *PermissionHandler) Approve(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.PermissionDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	permission, err := h.permissions.Approve(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Permission request approved successfully", permission))
}

func (h *PermissionHandler) Reject(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.PermissionDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req RejectPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	permission, err := h.permissions.Reject(c.Request.Context(), id, user.ID, req.Reason)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Permission request rejected successfully", permission))
}

func (h *PermissionHandler) Cancel(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	permission, err := h.permissions.Cancel(c.Request.Context(), id, employee.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Permission request cancelled successfully", permission))
}
