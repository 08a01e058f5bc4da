package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/utils"
)

// RequireRoles gates an endpoint on a capability: the verified role must be
// one of the listed roles. Runs after JWTAuth, so a missing role means the
// chain is miswired and reads as forbidden rather than a panic.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if _, ok := allowed[role]; !ok {
			utils.RespondError(c, utils.NewAppError(http.StatusForbidden, "FORBIDDEN", "insufficient role", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
