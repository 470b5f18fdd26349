package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/flexprice/subscription-analytics/internal/api"
	v1 "github.com/flexprice/subscription-analytics/internal/api/v1"
	"github.com/flexprice/subscription-analytics/internal/cache"
	"github.com/flexprice/subscription-analytics/internal/config"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/explainer"
	"github.com/flexprice/subscription-analytics/internal/integration/stripe"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/flexprice/subscription-analytics/internal/sentry"
	"github.com/flexprice/subscription-analytics/internal/service"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/flexprice/subscription-analytics/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Subscription Analytics API
// @version 1.0
// @description SaaS subscription metrics calculated over supplied or fetched subscription snapshots
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		// Validator backs request and snapshot validation globally
		fx.Invoke(validator.NewValidator),
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.Initialize,

			// Calculation engine
			provideCalculator,

			// Snapshot source
			provideSubscriptionSource,

			// Explanation collaborator
			provideExplainer,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewSnapshotService,
			service.NewMetricsService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCalculator() *metrics.Calculator {
	return metrics.NewCalculator()
}

// provideSubscriptionSource returns the Stripe source when a secret key is
// configured and nil otherwise, in which case only request snapshots are served
func provideSubscriptionSource(cfg *config.Configuration, log *logger.Logger) (subscription.Source, error) {
	if !cfg.Stripe.Enabled() {
		log.Info("Stripe is not configured, provider snapshots are disabled")
		return nil, nil
	}

	source, err := stripe.NewSubscriptionSource(cfg, log)
	if err != nil {
		return nil, err
	}
	return source, nil
}

func provideExplainer(cfg *config.Configuration, log *logger.Logger) explainer.Explainer {
	return explainer.NewClient(cfg, log)
}

func provideHandlers(
	logger *logger.Logger,
	metricsService service.MetricsService,
	snapshotService service.SnapshotService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Metrics: v1.NewMetricsHandler(metricsService, snapshotService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}
