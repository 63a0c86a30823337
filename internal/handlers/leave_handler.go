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

type LeaveHandler struct {
	leaves *service.LeaveService
	logger *zap.Logger
	dev    bool
}

func NewLeaveHandler(leaves *service.LeaveService, logger *zap.Logger, dev bool) *LeaveHandler {
	return &LeaveHandler{leaves: leaves, logger: logger, dev: dev}
}

type ApplyLeaveRequest struct {
	LeaveTypeID int64           `json:"leave_type_id" binding:"required"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date" binding:"required"`
	Days        decimal.Decimal `json:"days" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListLeavesQuery struct {
	PageQuery
	EmployeeID  *int64 `form:"employee_id"`
	LeaveTypeID *int64 `form:"leave_type_id"`
	Status      string `form:"status"`
}

func (h *LeaveHandler) Apply(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	leave, err := h.leaves.Apply(c.Request.Context(), employee.ID, service.ApplyLeaveInput{
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Days:        req.Days,
		Reason:      req.Reason,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Leave request submitted successfully", leave))
}

func (h *LeaveHandler) List(c *gin.Context) {
	var query ListLeavesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	user := middleware.CurrentUser(c)
	filter := repository.LeaveFilter{
		EmployeeID:  query.EmployeeID,
		LeaveTypeID: query.LeaveTypeID,
		Status:      query.Status,
		Offset:      query.Offset(),
		Limit:       query.Limit,
	}

	// Without the view_all grant the listing is forced to the caller's
	// own records.
	if !policy.Can(user.Role.Name, policy.LeaveViewAll, false) {
		employee := middleware.CurrentEmployee(c)
		if employee == nil {
			respondForbidden(c)
			return
		}
		filter.EmployeeID = &employee.ID
	}

	leaves, total, err := h.leaves.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Leave requests retrieved successfully",
		leaves,
		NewPagination(query.Page, query.Limit, total),
	))
}

// ListMine always scopes to the caller's own requests, whatever the role.
func (h *LeaveHandler) ListMine(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var query ListLeavesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Normalize()

	filter := repository.LeaveFilter{
		EmployeeID:  &employee.ID,
		LeaveTypeID: query.LeaveTypeID,
		Status:      query.Status,
		Offset:      query.Offset(),
		Limit:       query.Limit,
	}

	leaves, total, err := h.leaves.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Leave requests retrieved successfully",
		leaves,
		NewPagination(query.Page, query.Limit, total),
	))
}

func (h *LeaveHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	leave, err := h.leaves.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	user := middleware.CurrentUser(c)
	employee := middleware.CurrentEmployee(c)
	owner := employee != nil && leave.EmployeeID == employee.ID
	if !policy.Can(user.Role.Name, policy.LeaveView, owner) {
		respondForbidden(c)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave request retrieved successfully", leave))
}

func (h *LeaveHandler) Approve(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.LeaveDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	leave, err := h.leaves.Approve(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave request approved successfully", leave))
}

func (h *LeaveHandler) Reject(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.LeaveDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	leave, err := h.leaves.Reject(c.Request.Context(), id, user.ID, req.Reason)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave request rejected successfully", leave))
}

func (h *LeaveHandler) Cancel(c *gin.Context) {
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

	leave, err := h.leaves.Cancel(c.Request.Context(), id, employee.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave request cancelled successfully", leave))
}

func (h *LeaveHandler) Balances(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	balances, year, err := h.leaves.Balances(c.Request.Context(), employee.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave balances retrieved successfully", gin.H{
		"year":     year,
		"balances": balances,
	}))
}

func (h *LeaveHandler) Types(c *gin.Context) {
	types, err := h.leaves.Types(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave types retrieved successfully", types))
}
