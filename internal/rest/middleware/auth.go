package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/flexprice/subscription-analytics/internal/config"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// APIKeyAuthMiddleware rejects requests whose x-api-key header is not one of the
// configured keys. It is a no-op when auth is disabled.
func APIKeyAuthMiddleware(cfg *config.Configuration, log *logger.Logger) gin.HandlerFunc {
	if !cfg.Auth.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	keys := lo.Filter(cfg.Auth.APIKeys, func(k string, _ int) bool { return k != "" })

	return func(c *gin.Context) {
		apiKey := c.GetHeader(types.HeaderAPIKey)
		if apiKey == "" {
			log.Debugw("missing api key", "path", c.Request.URL.Path)
			abortUnauthorized(c, "Missing API key")
			return
		}

		if !validAPIKey(keys, apiKey) {
			log.Warnw("invalid api key",
				"path", c.Request.URL.Path,
				"request_id", types.GetRequestID(c.Request.Context()),
			)
			abortUnauthorized(c, "Invalid API key")
			return
		}

		c.Next()
	}
}

func validAPIKey(keys []string, apiKey string) bool {
	return lo.ContainsBy(keys, func(k string) bool {
		return subtle.ConstantTimeCompare([]byte(k), []byte(apiKey)) == 1
	})
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.ErrorResponse{
		Success: false,
		Error:   ierr.ErrorDetail{Display: message},
	})
}
