package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hrms-backend/internal/models"
	"hrms-backend/internal/repository"
	"hrms-backend/internal/utils"
)

const currentUserKey = "currentUser"

// Auth verifies the bearer token and loads the full user record, with its
// role and employee profile, into the request context.
func Auth(jwt *utils.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "authorization token is required")
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		if !user.IsActive {
			abortUnauthorized(c, "account is deactivated")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth. Calling it on a
// route outside the protected group is a programming error.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentEmployee returns the authenticated user's employee profile, or
// nil when the account has none.
func CurrentEmployee(c *gin.Context) *models.Employee {
	user := CurrentUser(c)
	if user == nil {
		return nil
	}
	return user.Employee
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
