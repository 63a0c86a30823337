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

type ExpenseHandler struct {
	expenses *service.ExpenseService
	logger   *zap.Logger
	dev      bool
}

func NewExpenseHandler(expenses *service.ExpenseService, logger *zap.Logger, dev bool) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, logger: logger, dev: dev}
}

type SubmitExpenseRequest struct {
	CategoryID  int64           `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ReceiptURL  string          `json:"receipt_url"`
}

type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AttachReceiptRequest struct {
	ReceiptURL string `json:"receipt_url" binding:"required"`
}

type ListExpensesQuery struct {
	PageQuery
	EmployeeID *int64 `form:"employee_id"`
	CategoryID *int64 `form:"category_id"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

func (h *ExpenseHandler) Submit(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var req SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	expense, err := h.expenses.Submit(c.Request.Context(), employee.ID, service.SubmitExpenseInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Expense submitted successfully", expense))
}

func (h *ExpenseHandler) List(c *gin.Context) {
	var query ListExpensesQuery
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
	filter := repository.ExpenseFilter{
		EmployeeID: query.EmployeeID,
		CategoryID: query.CategoryID,
		Status:     query.Status,
		From:       from,
		To:         to,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	if !policy.Can(user.Role.Name, policy.ExpenseViewAll, false) {
		employee := middleware.CurrentEmployee(c)
		if employee == nil {
			respondForbidden(c)
			return
		}
		filter.EmployeeID = &employee.ID
	}

	expenses, total, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Expenses retrieved successfully",
		expenses,
		NewPagination(query.Page, query.Limit, total),
	))
}

// ListMine always scopes to the caller's own expenses.
func (h *ExpenseHandler) ListMine(c *gin.Context) {
	employee := middleware.CurrentEmployee(c)
	if employee == nil {
		respondForbidden(c)
		return
	}

	var query ListExpensesQuery
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

	filter := repository.ExpenseFilter{
		EmployeeID: &employee.ID,
		CategoryID: query.CategoryID,
		Status:     query.Status,
		From:       from,
		To:         to,
		Offset:     query.Offset(),
		Limit:      query.Limit,
	}

	expenses, total, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successWithPagination(
		"Expenses retrieved successfully",
		expenses,
		NewPagination(query.Page, query.Limit, total),
	))
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	expense, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	user := middleware.CurrentUser(c)
	employee := middleware.CurrentEmployee(c)
	owner := employee != nil && expense.EmployeeID == employee.ID
	if !policy.Can(user.Role.Name, policy.ExpenseView, owner) {
		respondForbidden(c)
		return
	}

	c.JSON(http.StatusOK, successResponse("Expense retrieved successfully", expense))
}

func (h *ExpenseHandler) Approve(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ExpenseDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	expense, err := h.expenses.Approve(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Expense approved successfully", expense))
}

func (h *ExpenseHandler) Reject(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ExpenseDecide, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var req RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	expense, err := h.expenses.Reject(c.Request.Context(), id, user.ID, req.Reason)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Expense rejected successfully", expense))
}

func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !policy.Can(user.Role.Name, policy.ExpensePay, false) {
		respondForbidden(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	expense, err := h.expenses.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Expense marked as paid", expense))
}

func (h *ExpenseHandler) AttachReceipt(c *gin.Context) {
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

	var req AttachReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	expense, err := h.expenses.AttachReceipt(c.Request.Context(), id, employee.ID, req.ReceiptURL)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Receipt updated successfully", expense))
}

func (h *ExpenseHandler) Categories(c *gin.Context) {
	categories, err := h.expenses.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Expense categories retrieved successfully", categories))
}
