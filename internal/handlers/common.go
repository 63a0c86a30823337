package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hrms-backend/internal/apperror"
)

const dateLayout = "2006-01-02"

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Newf(apperror.CodeValidation, "invalid %s parameter", name)
	}
	return id, nil
}

func parseQueryID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.BadRequest("invalid id value")
	}
	return id, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.Newf(apperror.CodeValidation, "invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
