package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/handler"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
	"github.com/prperemyshlev/oauth-broker/internal/repository"
	"github.com/prperemyshlev/oauth-broker/internal/service"
	"github.com/prperemyshlev/oauth-broker/internal/utils"
	"github.com/prperemyshlev/oauth-broker/pkg/database"
	"github.com/prperemyshlev/oauth-broker/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	serviceName     = "oauth-broker"
	shutdownTimeout = 5 * time.Second
)

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	logger := infra.Logger()
	repos := repository.NewRepositories(infra.Postgres())

	providerClient := &http.Client{Timeout: cfg.OAuth.ProviderTimeout.Duration}
	registry := oauth.NewRegistryFromConfig(cfg, providerClient)
	if len(registry.Enabled()) == 0 {
		logger.Warn("No OAuth providers configured")
	}

	var flowMetrics *observability.FlowMetrics
	if mp := infra.MeterProvider(); mp != nil {
		m, err := observability.NewFlowMetrics(mp.Meter(serviceName))
		if err != nil {
			return nil, fmt.Errorf("failed to create flow metrics: %w", err)
		}
		flowMetrics = m
	}

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra, registry)

	userService := service.NewUserService(repos.User, logger)
	oauthService := service.NewOAuthService(
		userService,
		repos.AccountLink,
		newStateCodec(cfg.State, infra.Redis()),
		cfg.OAuth.ProviderTimeout.Duration,
		flowMetrics,
		logger,
	)

	oauthHandler := handler.NewOAuthHandler(oauthService)
	statusHandler := handler.NewStatusHandler(userService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, registry, oauthHandler, statusHandler, rateLimiter, healthChecker, infra.MetricsHandler(), logger)

	logger.Info("OAuth providers enabled", zap.Stringers("providers", registry.Enabled()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func newStateCodec(cfg config.StateConfig, redis *database.Redis) service.StateCodec {
	if cfg.Mode == config.StateModePlain {
		return service.NewDelimitedStateCodec()
	}
	return service.NewSignedStateCodec(
		utils.NewJWTManager(cfg.Secret, cfg.TTL.Duration),
		service.NewStateReplayGuard(redis),
	)
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	registry *oauth.Registry,
	oauthHandler *handler.OAuthHandler,
	statusHandler *handler.StatusHandler,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
	logger *zap.Logger,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	auth := router.Group("/auth")
	{
		auth.GET("/status", statusHandler.Status)
		auth.GET("/:provider",
			handler.ProviderMiddleware(registry),
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.ProviderAndIPKey, logger),
			oauthHandler.Start,
		)
		auth.GET("/:provider/callback",
			handler.ProviderMiddleware(registry),
			oauthHandler.Callback,
		)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain in-flight callbacks before closing the stores they write to.
	if err := a.server.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Server shutdown failed", zap.Error(err))
		return errors.Join(err, a.infra.Shutdown(ctx))
	}

	if err := a.infra.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
