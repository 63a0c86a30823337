package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms-backend/internal/middleware"
	"hrms-backend/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
	dev    bool
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger, dev bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, dev: dev}
}

type RegisterRequest struct {
	Email    string                `json:"email" binding:"required,email"`
	Password string                `json:"password" binding:"required"`
	RoleName string                `json:"role_name"`
	Employee *RegisterEmployeeData `json:"employee_data"`
}

type RegisterEmployeeData struct {
	EmployeeCode   string `json:"employee_code" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	DateOfJoining  string `json:"date_of_joining" binding:"required"`
	EmploymentType string `json:"employment_type"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	in := service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		RoleName: req.RoleName,
	}
	if req.Employee != nil {
		joined, err := parseDate(req.Employee.DateOfJoining)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		in.Employee = &service.RegisterEmployeeInput{
			EmployeeCode:   req.Employee.EmployeeCode,
			FirstName:      req.Employee.FirstName,
			LastName:       req.Employee.LastName,
			Phone:          req.Employee.Phone,
			Department:     req.Employee.Department,
			Designation:    req.Employee.Designation,
			DateOfJoining:  joined,
			EmploymentType: req.Employee.EmploymentType,
		}
	}

	user, tokens, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("User registered successfully", gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Token refreshed successfully", tokens))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Logged out successfully", nil))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	profile, err := h.auth.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", profile))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Password changed successfully", nil))
}

// ForgotPassword always answers with the same message so the endpoint
// cannot be used to enumerate registered emails. In development the
// raw token is returned in the body; production delivery happens
// out of band.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, err := h.auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	var data interface{}
	if h.dev && token != "" {
		data = gin.H{"reset_token": token}
	}

	c.JSON(http.StatusOK, successResponse("If the email is registered, a reset link has been sent", data))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Password reset successfully", nil))
}

func (h *AuthHandler) Roles(c *gin.Context) {
	roles, err := h.auth.Roles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Roles retrieved successfully", roles))
}
