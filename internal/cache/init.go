package cache

import (
	"github.com/flexprice/subscription-analytics/internal/config"
	"github.com/flexprice/subscription-analytics/internal/logger"
)

// Initialize builds the process wide cache
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache",
		"enabled", cfg.Cache.Enabled,
		"ttl", cfg.Cache.TTL.String(),
	)
	return NewInMemoryCache(cfg)
}
