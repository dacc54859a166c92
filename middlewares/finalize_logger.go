package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/procurement-app/utils"
)

// FinalizeLoggerMiddleware leaves an audit trail around purchase-run
// finalization, which is the one irreversible write in the system.
func FinalizeLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("Finalizing purchase run for request ID: %s (user %v)",
			c.Param("request_id"), c.GetUint("user_id"))

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Purchase run finalized for request ID: %s", c.Param("request_id"))
		} else {
			utils.ErrorLogger.Printf("Finalize failed for request ID: %s (status %d)",
				c.Param("request_id"), c.Writer.Status())
		}
	}
}
