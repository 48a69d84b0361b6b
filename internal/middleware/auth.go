package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	apierrors "github.com/rsaxena-dev/task-tracker-api/internal/errors"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
)

// RequireAuth resolves the bearer token into a principal and stores it in
// the request context. The built-in administrator token resolves without a
// store lookup; every other subject must be a live, active user record.
func RequireAuth(tokens *auth.TokenService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "Access denied. No token provided.")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.Subject == auth.BuiltinAdminSubject {
			role, err := models.ParseRoleTitle(claims.Role)
			if err != nil || role != models.RoleSuperAdmin {
				apierrors.Unauthorized(c, "Invalid token format")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyPrincipal, auth.BuiltinAdmin())
			c.Next()
			return
		}

		if _, err := uuid.Parse(claims.Subject); err != nil {
			apierrors.Unauthorized(c, "Invalid user ID format")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.Subject)
		if err != nil || !user.IsActive {
			apierrors.Unauthorized(c, "User not found or inactive")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, auth.FromUser(user))
		c.Next()
	}
}

// RequireRole allows only the listed roles past; it assumes RequireAuth ran
// earlier in the chain.
func RequireRole(roles ...models.RoleTitle) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "Not authorized")
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Access denied")
		c.Abort()
	}
}

// GetPrincipal retrieves the resolved principal from context
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
