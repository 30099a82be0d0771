package middlewares

import (
	"net/http"
	"strconv"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID       = "X-User-Id"
	HeaderSessionToken = "X-Session-Token"
	HeaderUserRole     = "X-User-Role"
)

// SessionMiddleware guards protected routes with the header triplet
// identifying account, presented token and claimed role. The stored token is
// re-read on every request; logout or a superseding login must take effect
// immediately. When allowedRoles is given, other roles get 403 even with a
// valid session.
func SessionMiddleware(auth *services.AuthService, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader(HeaderUserID)
		token := c.GetHeader(HeaderSessionToken)
		role := c.GetHeader(HeaderUserRole)
		if idStr == "" || token == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session headers required"})
			return
		}

		accountID, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		if len(allowedRoles) > 0 {
			allowed := false
			for _, r := range allowedRoles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		if err := auth.Validate(uint(accountID), token, role); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set("accountID", uint(accountID))
		c.Set("role", role)
		c.Next()
	}
}
