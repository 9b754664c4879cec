package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"sportfund/internal/logger"
)

// APIKeyHeader carries the stats pipeline's shared secret.
const APIKeyHeader = "X-API-Key"

// ContextPipeline is set to true on requests authenticated by API key.
const ContextPipeline = "pipeline"

// PipelineAuthMiddleware admits machine stats submissions carrying one of
// keys. Several keys may be active while the pipeline rotates its secret.
// With no keys configured the pipeline routes answer 503.
func PipelineAuthMiddleware(keys ...string) gin.HandlerFunc {
	active := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			active = append(active, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(active) == 0 {
			abortWithError(c, http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED", "Pipeline endpoints are not configured")
			return
		}

		presented := []byte(c.GetHeader(APIKeyHeader))
		matched := 0
		for _, k := range active {
			// Compare against every key so timing does not reveal which one matched.
			matched |= subtle.ConstantTimeCompare(presented, k)
		}
		if matched != 1 {
			logger.Get().Warnw("rejected pipeline request",
				"request_id", c.GetString(requestIDKey),
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			abortWithError(c, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid or missing API key")
			return
		}

		c.Set(ContextPipeline, true)
		c.Next()
	}
}
