package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
)

type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// PageQuery is the shared pagination binding. Limit is capped so a single
// request cannot pull the whole table.
type PageQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithPagination(message string, data interface{}, pagination *Pagination) APIResponse {
	return APIResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	}
}

// respondError is the single place service and storage errors become HTTP
// responses. Unexpected errors are logged and masked outside development.
func respondError(c *gin.Context, logger *zap.Logger, devMode bool, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		c.JSON(apperror.HTTPStatus(appErr.Code), errorResponse(appErr.Message))
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, errorResponse("resource not found"))
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, errorResponse("duplicate field value entered"))
		return
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(http.StatusBadRequest, errorResponse("invalid reference to related resource"))
		return
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrSignatureInvalid):
		c.JSON(http.StatusUnauthorized, errorResponse("invalid or expired token"))
		return
	}

	logger.Error("unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	message := "internal server error"
	if devMode {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, errorResponse(message))
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse("invalid request: "+err.Error()))
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, errorResponse("access denied"))
}
