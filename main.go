package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"realty-calc/config"
	httpLayer "realty-calc/http"
	"realty-calc/repository"
	"realty-calc/service"
	"realty-calc/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	telemetry.SetupLogging(cfg.Log.Level, cfg.Log.Format)

	shutdownTracer := telemetry.InitTracer(cfg.OtelEndpoint)
	defer shutdownTracer()

	calcRepo, closeRepo, err := openCalculationRepository(cfg.Storage)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open calculation storage")
	}
	defer closeRepo()

	cache, closeCache := openCache(cfg.Cache)
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []service.Option{
		service.WithMetrics(service.NewMetrics(registry)),
		service.WithAdvisor(service.NewAdvisorService(service.AdvisorConfig{
			APIKey:  cfg.Advisor.APIKey,
			APIURL:  cfg.Advisor.APIURL,
			Model:   cfg.Advisor.Model,
			Timeout: cfg.Advisor.Timeout,
		})),
	}

	irrService := service.NewIRRService(calcRepo, cache, opts...)
	loanService := service.NewLoanService(calcRepo, cache, cfg.Calculator.MaxSchedulePoints, opts...)
	roiService := service.NewROIService(calcRepo, cache, opts...)
	termComparisonService := service.NewTermComparisonService(loanService, calcRepo, cache, opts...)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(
		httpLayer.Handlers{
			IRR:     httpLayer.NewIRRHandler(irrService),
			Loan:    httpLayer.NewLoanHandler(loanService),
			ROI:     httpLayer.NewROIHandler(roiService),
			Terms:   httpLayer.NewTermComparisonHandler(termComparisonService),
			History: httpLayer.NewHistoryHandler(calcRepo),
			Health:  httpLayer.HealthHandler(cfg.Storage.Driver, cfg.Cache.Driver),
		},
		rateLimiter,
		httpLayer.NewRequestMetrics(registry),
		registry,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":    server.Addr,
			"storage": cfg.Storage.Driver,
			"cache":   cfg.Cache.Driver,
		}).Info("realty calculator API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logrus.WithError(err).Error("error starting server")
		return
	case <-quit:
		logrus.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("error during server shutdown")
	}

	logrus.Info("server exited")
}

func openCalculationRepository(cfg config.StorageConfig) (repository.CalculationRepository, func(), error) {
	if cfg.Driver != "sqlite" {
		return repository.NewCalculationRepositoryMemory(), func() {}, nil
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	repo, err := repository.NewCalculationRepositorySQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close calculation storage")
		}
	}, nil
}

// openCache falls back to the in-memory cache when redis is unreachable.
func openCache(cfg config.CacheConfig) (repository.CacheRepository, func()) {
	switch cfg.Driver {
	case "none":
		return nil, func() {}
	case "redis":
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, using in-memory cache")
			_ = redisCache.Close()
			return repository.NewMemoryCache(cfg.TTL), func() {}
		}
		return redisCache, func() { _ = redisCache.Close() }
	default:
		return repository.NewMemoryCache(cfg.TTL), func() {}
	}
}
