package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/aposta-apoio-service/config"
	database "github.com/duynhne/aposta-apoio-service/internal/core"
	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/internal/core/repository"
	logicv1 "github.com/duynhne/aposta-apoio-service/internal/logic/v1"
	v1 "github.com/duynhne/aposta-apoio-service/internal/web/v1"
	"github.com/duynhne/aposta-apoio-service/middleware"
	"github.com/duynhne/pkg/logger/zerolog"
)

// repositories bundles the storage backend selected by DB_DRIVER.
type repositories struct {
	users         domain.UserRepository
	professionals domain.ProfessionalRepository
	sessions      domain.SessionRepository
	close         func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := repository.NewMemoryStore()
		return &repositories{
			users:         repository.NewMemoryUserRepository(store),
			professionals: repository.NewMemoryProfessionalRepository(store),
			sessions:      repository.NewMemorySessionRepository(store),
			close:         func() {},
		}, nil
	}

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			return nil, err
		}
		log.Info().Msg("Database migrations applied")
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:         repository.NewUserRepository(pool),
		professionals: repository.NewProfessionalRepository(pool),
		sessions:      repository.NewSessionRepository(pool),
		close:         pool.Close,
	}, nil
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize Zerolog with LOG_LEVEL from config
	zerolog.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Str("db_driver", cfg.Database.Driver).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			tp = provider
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Storage: pgx pool with migrations, or the in-memory store
	repos, err := openRepositories(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer repos.close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("Storage ready")

	expiryZone, err := cfg.GetExpiryLocation()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid JWT_EXPIRY_ZONE")
	}
	tokens := logicv1.NewTokenService(cfg.Security.TokenSecret, cfg.GetTokenExpiration(), expiryZone)
	auth := logicv1.NewAuthService(repos.users, tokens, logicv1.NewPasswordHasher(cfg.Security.BcryptCost))

	handler := v1.NewHandler(v1.Services{
		Auth:          auth,
		Users:         logicv1.NewUserService(repos.users, repos.sessions),
		Professionals: logicv1.NewProfessionalService(repos.professionals),
		Sessions:      logicv1.NewSessionService(repos.sessions, repos.users, repos.professionals),
		Dashboard:     logicv1.NewDashboardService(repos.users, repos.professionals, repos.sessions),
		ExternalTime: logicv1.NewExternalTimeService(
			cfg.External.TimeURL,
			cfg.External.TimeZone,
			cfg.GetExternalTimeoutDuration(),
		),
	})

	if cfg.Service.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var isShuttingDown atomic.Bool

	// Tracing middleware
	r.Use(middleware.TracingMiddleware(cfg.Service.Name))

	// Logging middleware
	r.Use(middleware.LoggingMiddleware())

	// Recovery runs inside the request logger so panics carry trace_id
	// and still produce an access log line.
	r.Use(middleware.Recovery())

	// Prometheus middleware
	r.Use(middleware.PrometheusMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Bind the bearer-token principal on every API request
	api := r.Group("", middleware.Authenticate(tokens, auth))

	var authLimit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		authLimit = append(authLimit, middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}
	handler.RegisterRoutes(api, authLimit...)
	r.NoRoute(middleware.Authenticate(tokens, auth), middleware.RequireAuthenticated(), handler.NotFound)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for load balancers to notice.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	// Shutdown context with configurable timeout
	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close storage
	repos.close()
	log.Info().Msg("Storage closed")

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
