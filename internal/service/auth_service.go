package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/utils"
)

const passwordResetTTL = time.Hour

type RegisterInput struct {
	Email    string
	Password string
	RoleName string
	Employee *RegisterEmployeeInput
}

// RegisterEmployeeInput is the optional profile created alongside the
// account. The full profile is managed through the employee endpoints.
type RegisterEmployeeInput struct {
	EmployeeCode   string
	FirstName      string
	LastName       string
	Phone          string
	Department     string
	Designation    string
	DateOfJoining  time.Time
	EmploymentType string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	jwt       *utils.JWTManager
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, employees repository.EmployeeRepository, jwt *utils.JWTManager) *AuthService {
	return &AuthService{
		users:     users,
		employees: employees,
		jwt:       jwt,
		now:       time.Now,
	}
}

// Register creates a user account, optionally with an employee profile,
// and opens a session. The role defaults to Employee when none is named;
// an unknown role name is rejected.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	if len(in.Password) < 8 {
		return nil, nil, apperror.BadRequest("password must be at least 8 characters")
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, nil, apperror.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	roleName := in.RoleName
	if roleName == "" {
		roleName = models.RoleEmployee
	}
	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.BadRequest("invalid role")
		}
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}

	if in.Employee != nil {
		if _, err := s.employees.FindByCode(ctx, in.Employee.EmployeeCode); err == nil {
			return nil, nil, apperror.Conflict("employee code is already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		employmentType := in.Employee.EmploymentType
		if employmentType == "" {
			employmentType = "full-time"
		}
		employee := &models.Employee{
			EmployeeCode:   in.Employee.EmployeeCode,
			FirstName:      in.Employee.FirstName,
			LastName:       in.Employee.LastName,
			Phone:          in.Employee.Phone,
			Department:     in.Employee.Department,
			Designation:    in.Employee.Designation,
			DateOfJoining:  in.Employee.DateOfJoining,
			EmploymentType: employmentType,
			Status:         models.EmployeeActive,
		}
		if err := s.employees.CreateWithUser(ctx, user, employee); err != nil {
			return nil, nil, err
		}
	} else if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

// Login deliberately returns the same message for an unknown email and a
// wrong password so the endpoint does not leak which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperror.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, nil, apperror.Unauthorized("account is deactivated")
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a refresh token. The presented token must carry a valid
// signature AND match a stored, unexpired row; a stored row that has
// expired is deleted on sight.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	hash := utils.HashToken(refreshToken)
	stored, err := s.users.FindRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	if s.now().After(stored.ExpiresAt) {
		_ = s.users.DeleteRefreshToken(ctx, hash)
		return nil, apperror.Unauthorized("refresh token has expired")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account is deactivated")
	}

	if err := s.users.DeleteRefreshToken(ctx, hash); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user.ID)
}

// Logout revokes a single refresh token. An unknown token is not an
// error; the session is gone either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.users.DeleteRefreshToken(ctx, utils.HashToken(refreshToken))
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.BadRequest("password must be at least 8 characters")
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperror.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Other sessions do not survive a password change.
	return s.users.DeleteRefreshTokensByUser(ctx, userID)
}

// ForgotPassword issues a reset token. The return value is the raw token
// for the caller to deliver; only its hash is stored. An unknown email
// returns an empty token and no error so the endpoint stays neutral.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	token := uuid.NewString()
	expires := s.now().Add(passwordResetTTL)
	user.PasswordResetHash = utils.HashToken(token)
	user.PasswordResetExpires = &expires

	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.BadRequest("password must be at least 8 characters")
	}

	user, err := s.users.FindByResetHash(ctx, utils.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("invalid or expired reset token")
		}
		return err
	}

	if user.PasswordResetExpires == nil || s.now().After(*user.PasswordResetExpires) {
		return apperror.BadRequest("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.PasswordResetHash = ""
	user.PasswordResetExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// A reset invalidates every open session for the account.
	return s.users.DeleteRefreshTokensByUser(ctx, user.ID)
}

func (s *AuthService) Roles(ctx context.Context) ([]models.Role, error) {
	return s.users.ListRoles(ctx)
}

func (s *AuthService) issueTokens(ctx context.Context, userID int64) (*TokenPair, error) {
	access, accessExp, err := s.jwt.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	row := &models.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: refreshExp,
	}
	if err := s.users.CreateRefreshToken(ctx, row); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}
