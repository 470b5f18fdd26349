package service

import (
	"github.com/flexprice/subscription-analytics/internal/cache"
	"github.com/flexprice/subscription-analytics/internal/config"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/explainer"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/flexprice/subscription-analytics/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger     *logger.Logger
	Config     *config.Configuration
	Calculator *metrics.Calculator
	Cache      cache.Cache

	// Source lists subscriptions from a billing provider, nil when none is configured
	Source subscription.Source

	Explainer explainer.Explainer
	Sentry    *sentry.Service
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	calculator *metrics.Calculator,
	cache cache.Cache,
	source subscription.Source,
	explainer explainer.Explainer,
	sentryService *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:     logger,
		Config:     config,
		Calculator: calculator,
		Cache:      cache,
		Source:     source,
		Explainer:  explainer,
		Sentry:     sentryService,
	}
}
