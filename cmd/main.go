package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/growthdash/internal/adapters/cache"
	"github.com/okian/growthdash/internal/adapters/http/api"
	"github.com/okian/growthdash/internal/adapters/http/site"
	"github.com/okian/growthdash/internal/adapters/http/swagger"
	service "github.com/okian/growthdash/internal/app"
	"github.com/okian/growthdash/internal/config"
	"github.com/okian/growthdash/internal/domain/predictor"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/okian/growthdash/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	redisPingTimeout          = 2 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []service.Option{
		service.WithLogger(loggerInstance),
		service.WithModelPath(cfg.ModelPath),
		service.WithSkillsPath(cfg.SkillsPath),
		service.WithPredictTimeout(cfg.PredictTimeout()),
		service.WithSweepConcurrency(cfg.SweepConcurrency),
		service.WithGrowthThreshold(cfg.GrowthThreshold),
	}
	if client := connectCache(ctx, cfg, loggerInstance); client != nil {
		defer func() { _ = client.Close() }()
		opts = append(opts, service.WithCache(cacheWrapper(cfg, client, loggerInstance)))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1) //nolint:gocritic // deferred cleanup is irrelevant before serving
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newHandler wires every route onto one mux behind the request id middleware.
func newHandler(ctx context.Context, svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	// Register ReDoc under /api-docs and the OpenAPI document under /openapi.yaml
	swagger.Register(ctx, mux)

	// Landing page at /
	site.Register(ctx, mux)

	// Business API routes with the service dependency.
	api.NewServer(svc, svc).Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// connectCache returns a live Redis client, or nil when the cache is
// disabled or unreachable. The service runs uncached in both cases.
func connectCache(ctx context.Context, cfg *config.Config, log logger.Logger) *redis.Client {
	if !cfg.CacheEnabled() {
		return nil
	}
	client := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := cache.Ping(pingCtx, client); err != nil {
		log.Warn(ctx, "prediction cache unavailable; continuing without it",
			logger.String("redis_addr", cfg.RedisAddr), logger.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info(ctx, "prediction cache enabled",
		logger.String("redis_addr", cfg.RedisAddr), logger.Duration("ttl", cfg.CacheTTL()))
	return client
}

func cacheWrapper(cfg *config.Config, client redis.Cmdable, log logger.Logger) func(predictor.Predictor) predictor.Predictor {
	return func(next predictor.Predictor) predictor.Predictor {
		return cache.New(next, client,
			cache.WithTTL(cfg.CacheTTL()),
			cache.WithPrefix(cfg.CachePrefix),
			cache.WithLogger(log.Named("cache")),
		)
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
