package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/procurement-app/utils"
)

// RequireRoles rejects callers whose role is not in the allowed set. It runs
// after AuthMiddleware, which puts the role on the context.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || !allowed[role] {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", roleList(roles)))
			c.Abort()
			return
		}

		c.Next()
	}
}

func roleList(roles []string) string {
	if len(roles) == 1 {
		return roles[0]
	}
	out := roles[0]
	for _, r := range roles[1:] {
		out += " or " + r
	}
	return out
}
