package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"notesapp/internal/caching"
	"notesapp/internal/config"
	_ "notesapp/internal/docs"
	"notesapp/internal/handlers"
	"notesapp/internal/jobs/background"
	"notesapp/internal/messaging"
	"notesapp/internal/metrics"
	"notesapp/internal/middleware"
	"notesapp/internal/repositories"
	"notesapp/internal/services"
	"notesapp/pkg/database"
	"notesapp/pkg/logger"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notesapp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// secrets and the DSN are never logged
	log.Info("Starting notesapp",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.Bool("cache", cfg.CacheEnabled()),
		zap.Bool("archive", cfg.ArchiveEnabled()),
		zap.Bool("events", cfg.EventsEnabled()),
		zap.Bool("auth_strict", cfg.AuthStrict),
		zap.Bool("quota_strict", cfg.QuotaStrict),
		zap.Bool("admin_endpoints", cfg.AdminEndpointsEnabled))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var tenantCache caching.TenantCache = caching.NopTenantCache{}
	if cfg.CacheEnabled() {
		redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		defer redisClient.Close()
		tenantCache = caching.NewRedisTenantCache(redisClient, cfg.TenantCacheTTL)
	}

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.EventsEnabled() {
		rabbit, err := messaging.NewRabbitPublisher(cfg.AMQPURL, cfg.EventsExchange)
		if err != nil {
			// events are best-effort; the API serves without them
			log.Warn("Event publisher unavailable, continuing without events", zap.Error(err))
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	noteRepo := repositories.NewNoteRepo(pool)

	var (
		storage services.ObjectStorage
		archive services.ArchiveService
	)
	if cfg.ArchiveEnabled() {
		storage, err = services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		archive = services.NewArchiveService(storage, cfg.ArchiveBucket, tenantRepo, noteRepo, m, log)
	}

	tokenSvc, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}
	tenantSvc := services.NewTenantService(tenantRepo, tenantCache, publisher, m, log)
	userSvc := services.NewUserService(userRepo, 0, publisher, log)
	quotaSvc := services.NewQuotaService(noteRepo)
	noteSvc := services.NewNoteService(noteRepo, tenantSvc, quotaSvc, cfg.QuotaStrict, publisher, m, log)
	authSvc := services.NewAuthService(tokenSvc, tenantSvc, userSvc, services.DataStores{
		Tenants: tenantRepo,
		Users:   userRepo,
		Notes:   noteRepo,
	}, tenantCache, archive, m, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(log)

	versionMiddleware := middleware.NewVersionMiddleware()

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics(m))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.AdminTokenHeader,
		},
	}))
	e.Use(versionMiddleware.APIVersionResolver())
	e.Use(middleware.Authenticator(authSvc, m, log))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router := &handlers.Router{
		Auth:       handlers.NewAuthHandlers(authSvc, tenantSvc),
		Notes:      handlers.NewNoteHandlers(noteSvc),
		Tenants:    handlers.NewTenantHandlers(tenantSvc),
		Health:     handlers.NewHealthHandlers(pool, tenantCache, storage, cfg.ArchiveBucket, log),
		AdminToken: cfg.AdminToken,
		V1:         []echo.MiddlewareFunc{versionMiddleware.VersionHeader("v1")},
		Strict:     cfg.AuthStrict,
	}
	if cfg.AdminEndpointsEnabled {
		router.Admin = handlers.NewAdminHandlers(authSvc, tenantSvc, archive, log)
	}
	router.Register(e)

	if archive != nil {
		scheduler, err := background.NewJobScheduler(archive, cfg.ArchiveInterval, log)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Warn("Scheduler shutdown failed", zap.Error(err))
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
