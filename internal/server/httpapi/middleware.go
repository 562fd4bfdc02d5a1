package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kodbank/kodbank/internal/common"
)

const (
	cookieName = "auth_token"

	ctxUsernameKey = "username"
	ctxRoleKey     = "role"
)

// authGuard validates the session cookie before allowing a protected
// operation. The checks run in a fixed order: cookie presence, signature and
// expiry, subject resolution, registry presence. No storage lookup happens
// before the signature is verified. All 403 responses share one body so the
// caller cannot tell which check failed; the distinction is only logged.
func (s *Server) authGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		claims, err := s.accounts.Authenticate(c.Request.Context(), token)
		if err != nil {
			ctx := c.Request.Context()
			switch {
			case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
				s.logger.Info(ctx, "rejected token", "reason", "signature invalid or expired")
			case errors.Is(err, common.ErrorNotFound):
				s.logger.Info(ctx, "rejected token", "reason", "subject unknown")
			case errors.Is(err, common.ErrorUnauthorized):
				s.logger.Info(ctx, "rejected token", "reason", "not in session registry")
			default:
				s.logger.Error(ctx, "token validation failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(ctxUsernameKey, claims.Subject)
		c.Set(ctxRoleKey, claims.Role)

		c.Next()
	}
}
