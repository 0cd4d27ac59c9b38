package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/openfence/fence-quote-api/cmd/mainconfig"
	"github.com/openfence/fence-quote-api/internal/api/router"
	appconfig "github.com/openfence/fence-quote-api/internal/config"
	"github.com/openfence/fence-quote-api/internal/http/handlers"
	"github.com/openfence/fence-quote-api/internal/observability/metrics"
	"github.com/openfence/fence-quote-api/internal/ratelimit"
	"github.com/openfence/fence-quote-api/internal/tenant"
	"github.com/openfence/fence-quote-api/internal/webhook"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting fence-quote-api server",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", cfg.EmailProvider,
	)

	// Process-local stores by default; Redis when configured, so rate
	// windows and tenant configs are shared across instances.
	var tenantStore tenant.Store = tenant.NewFileStore(cfg.TenantConfigDir)
	var rateStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		tenantStore = tenant.NewRedisStore(redisClient)
		rateStore = ratelimit.NewRedisStore(redisClient)
	}

	leadMetrics := metrics.NewLeadMetrics(nil)
	limiter := ratelimit.New(rateStore, cfg.RateLimitMax, cfg.RateLimitWindow, logger)

	sender, err := mainconfig.BuildEmailSender(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}

	intake := handlers.NewLeadIntakeHandler(handlers.LeadIntakeConfig{
		Sender:         sender,
		Limiter:        limiter,
		Forwarder:      webhook.NewDispatcher(tenantStore, leadMetrics, logger),
		Metrics:        leadMetrics,
		Logger:         logger,
		FromEmail:      cfg.FromEmail(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		LeadIntake:         intake,
		TenantConfig:       handlers.NewTenantConfigHandler(tenantStore, logger),
		Estimate:           handlers.NewEstimateHandler(tenantStore, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
