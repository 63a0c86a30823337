package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrms-backend/config"
	"hrms-backend/internal/models"
	"hrms-backend/internal/utils"
)

type stubUserRepo struct {
	user *models.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByResetHash(ctx context.Context, hash string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (r *stubUserRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListRoles(ctx context.Context) ([]models.Role, error) { return nil, nil }

func (r *stubUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return nil
}

func (r *stubUserRepo) FindRefreshToken(ctx context.Context, hash string) (*models.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) DeleteRefreshToken(ctx context.Context, hash string) error { return nil }

func (r *stubUserRepo) DeleteRefreshTokensByUser(ctx context.Context, userID int64) error {
	return nil
}

func testJWT() *utils.JWTManager {
	return utils.NewJWTManager(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func authRouter(jwt *utils.JWTManager, repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(jwt, repo), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func TestAuthAcceptsValidToken(t *testing.T) {
	jwt := testJWT()
	repo := &stubUserRepo{user: &models.User{ID: 7, Email: "jo@example.com", IsActive: true}}
	r := authRouter(jwt, repo)

	token, _, err := jwt.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuthRejections(t *testing.T) {
	jwt := testJWT()
	repo := &stubUserRepo{user: &models.User{ID: 7, Email: "jo@example.com", IsActive: true}}
	r := authRouter(jwt, repo)

	validToken, _, err := jwt.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	unknownUserToken, _, err := jwt.GenerateAccessToken(99)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refreshToken, _, err := jwt.GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic " + validToken},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token used as access", "Bearer " + refreshToken},
		{"unknown user", "Bearer " + unknownUserToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthRejectsInactiveUser(t *testing.T) {
	jwt := testJWT()
	repo := &stubUserRepo{user: &models.User{ID: 7, Email: "jo@example.com", IsActive: false}}
	r := authRouter(jwt, repo)

	token, _, err := jwt.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for inactive account", w.Code)
	}
}
