package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInternal, http.StatusInternalServerError},
		{Code("something-else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
	if got := GetCode(errors.New("boom")); got != CodeInternal {
		t.Errorf("GetCode(plain error) = %q, want internal", got)
	}
	if got := GetCode(NotFound("missing")); got != CodeNotFound {
		t.Errorf("GetCode(NotFound) = %q, want not_found", got)
	}

	wrapped := fmt.Errorf("lookup failed: %w", Conflict("taken"))
	if got := GetCode(wrapped); got != CodeConflict {
		t.Errorf("GetCode(wrapped) = %q, want conflict", got)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeConflict, "insufficient balance: %s days available", "2.5")
	if err.Message != "insufficient balance: 2.5 days available" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Code != CodeConflict {
		t.Errorf("code = %q, want conflict", err.Code)
	}
}
