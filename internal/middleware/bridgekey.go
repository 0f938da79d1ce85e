package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/response"
)

const bridgeKeyHeader = "X-Bridge-Key"

// BridgeKey guards operational endpoints with the shared bridge secret.
// An empty configured key disables the guarded routes entirely rather than
// leaving them open.
func BridgeKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "ops endpoints disabled"))
			c.Abort()
			return
		}
		supplied := c.GetHeader(bridgeKeyHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
