package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms-backend/config"
	"hrms-backend/internal/apperror"
	"hrms-backend/internal/models"
	"hrms-backend/internal/utils"
)

type stubUserRepo struct {
	users         map[int64]*models.User
	roles         map[string]*models.Role
	refreshTokens map[string]*models.RefreshToken
	nextID        int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:         make(map[int64]*models.User),
		roles:         make(map[string]*models.Role),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByResetHash(ctx context.Context, hash string) (*models.User, error) {
	for _, user := range r.users {
		if user.PasswordResetHash != "" && user.PasswordResetHash == hash {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *stubUserRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *stubUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	copied := *token
	r.refreshTokens[token.TokenHash] = &copied
	return nil
}

func (r *stubUserRepo) FindRefreshToken(ctx context.Context, hash string) (*models.RefreshToken, error) {
	token, ok := r.refreshTokens[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *stubUserRepo) DeleteRefreshToken(ctx context.Context, hash string) error {
	delete(r.refreshTokens, hash)
	return nil
}

func (r *stubUserRepo) DeleteRefreshTokensByUser(ctx context.Context, userID int64) error {
	for hash, token := range r.refreshTokens {
		if token.UserID == userID {
			delete(r.refreshTokens, hash)
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubEmployeeRepo) {
	t.Helper()
	repo := newStubUserRepo()
	repo.roles[models.RoleEmployee] = &models.Role{ID: 5, Name: models.RoleEmployee}
	repo.roles[models.RoleHR] = &models.Role{ID: 4, Name: models.RoleHR}
	employees := newStubEmployeeRepo(repo)

	jwtManager := utils.NewJWTManager(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})

	svc := NewAuthService(repo, employees, jwtManager)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo.Create(context.Background(), &models.User{
		Email:        "jo@example.com",
		PasswordHash: string(hash),
		RoleID:       5,
		IsActive:     true,
	})

	return svc, repo, employees
}

func TestLoginUniformFailureMessage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, errWrongPass := svc.Login(context.Background(), "jo@example.com", "wrong")

	if apperror.GetCode(errUnknown) != apperror.CodeUnauthorized {
		t.Fatalf("unknown email err = %v, want unauthorized", errUnknown)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("unknown-email message %q differs from wrong-password message %q",
			errUnknown.Error(), errWrongPass.Error())
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.users[1].IsActive = false

	_, _, err := svc.Login(context.Background(), "jo@example.com", "correct horse")
	if apperror.GetCode(err) != apperror.CodeUnauthorized {
		t.Fatalf("err = %v, want unauthorized for inactive account", err)
	}
}

func TestLoginRecordsSession(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	user, tokens, err := svc.Login(context.Background(), "jo@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("empty token pair")
	}
	if user.LastLogin == nil {
		t.Errorf("last_login not updated")
	}
	if len(repo.refreshTokens) != 1 {
		t.Fatalf("stored refresh rows = %d, want 1", len(repo.refreshTokens))
	}
	for _, stored := range repo.refreshTokens {
		if stored.TokenHash == tokens.RefreshToken {
			t.Errorf("refresh token stored in plaintext")
		}
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, tokens, err := svc.Login(context.Background(), "jo@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Errorf("refresh token not rotated")
	}
	if len(repo.refreshTokens) != 1 {
		t.Errorf("stored refresh rows = %d, want 1 after rotation", len(repo.refreshTokens))
	}

	// The old token is dead after rotation.
	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); apperror.GetCode(err) != apperror.CodeUnauthorized {
		t.Errorf("err = %v, want unauthorized reusing a rotated token", err)
	}
}

func TestRefreshRequiresStoredRow(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, tokens, err := svc.Login(context.Background(), "jo@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A valid signature alone is not enough once the row is revoked.
	if err := svc.Logout(context.Background(), tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(repo.refreshTokens) != 0 {
		t.Fatalf("refresh row survived logout")
	}
	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); apperror.GetCode(err) != apperror.CodeUnauthorized {
		t.Errorf("err = %v, want unauthorized after logout", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "jo@example.com", "correct horse"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, err := svc.ForgotPassword(context.Background(), "jo@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token == "" {
		t.Fatalf("no reset token issued for a known email")
	}
	if repo.users[1].PasswordResetHash == token {
		t.Errorf("reset token stored in plaintext")
	}

	if err := svc.ResetPassword(context.Background(), token, "brand new pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Sessions are revoked, the token is single use, and the new password
	// works.
	if len(repo.refreshTokens) != 0 {
		t.Errorf("refresh rows survived a password reset")
	}
	if err := svc.ResetPassword(context.Background(), token, "another pass"); apperror.GetCode(err) != apperror.CodeValidation {
		t.Errorf("err = %v, want validation reusing a reset token", err)
	}
	if _, _, err := svc.Login(context.Background(), "jo@example.com", "brand new pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestForgotPasswordUnknownEmailNeutral(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	token, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token != "" {
		t.Errorf("token issued for unknown email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "jo@example.com", Password: "password123"})
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("err = %v, want conflict for duplicate email", err)
	}
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	user, tokens, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.RoleID != 5 {
		t.Errorf("role = %d, want default Employee role", user.RoleID)
	}
	if tokens == nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("no token pair issued on registration")
	}
	if len(repo.refreshTokens) != 1 {
		t.Errorf("stored refresh rows = %d, want 1", len(repo.refreshTokens))
	}
}

func TestRegisterWithRoleAndProfile(t *testing.T) {
	svc, _, employees := newAuthFixture(t)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "hr@example.com",
		Password: "password123",
		RoleName: models.RoleHR,
		Employee: &RegisterEmployeeInput{
			EmployeeCode:  "EMP020",
			FirstName:     "Sam",
			LastName:      "Reyes",
			DateOfJoining: time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.RoleID != 4 {
		t.Errorf("role = %d, want HR role", user.RoleID)
	}

	employee, err := employees.FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("employee profile not created: %v", err)
	}
	if employee.EmployeeCode != "EMP020" {
		t.Errorf("employee code = %q, want EMP020", employee.EmployeeCode)
	}
	if employee.EmploymentType != "full-time" {
		t.Errorf("employment type = %q, want full-time default", employee.EmploymentType)
	}
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		RoleName: "Warlord",
	})
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("err = %v, want validation for unknown role", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "new@example.com"); err == nil {
		t.Errorf("user row created despite unknown role")
	}
}
