package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/pkg/auth"
)

const ContextRole = "role"

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and sets the subject and role
// in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(handler.ContextSubjectID, claims.Subject)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

// RequireRole rejects requests whose token carries a different role.
func (m *AuthMiddleware) RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != string(role) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
