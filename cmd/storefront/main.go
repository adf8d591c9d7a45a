package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gamestore-storefront/api/controllers"
	"github.com/angelmondragon/gamestore-storefront/api/routes"
	"github.com/angelmondragon/gamestore-storefront/internal/catalog"
	"github.com/angelmondragon/gamestore-storefront/internal/render"
	"github.com/angelmondragon/gamestore-storefront/internal/storefront"
	"github.com/angelmondragon/gamestore-storefront/pkg/config"
	"github.com/angelmondragon/gamestore-storefront/pkg/instance"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
	"github.com/angelmondragon/gamestore-storefront/pkg/metrics"
	"github.com/angelmondragon/gamestore-storefront/pkg/redis"
	"github.com/angelmondragon/gamestore-storefront/pkg/storeapi"
)

const (
	serviceName     = "storefront"
	shutdownTimeout = 10 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped with errors", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	backendMetrics := metrics.NewBackendMetrics(registry)

	client, err := storeapi.NewClient(cfg.Backend.BaseURL,
		storeapi.WithTimeout(cfg.Backend.Timeout),
		storeapi.WithObserver(backendMetrics.Observe),
	)
	if err != nil {
		return err
	}

	catalogOpts := []catalog.Option{
		catalog.WithRecorder(backendMetrics),
		catalog.WithLogger(logg),
	}
	var cachePinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		catalogOpts = append(catalogOpts, catalog.WithCache(redisClient, cfg.Redis.CatalogTTL))
		cachePinger = redisClient
	}

	cat, err := catalog.NewService(client, catalogOpts...)
	if err != nil {
		return err
	}

	sf, err := storefront.NewController(cat, client,
		storefront.WithLogger(logg),
		storefront.WithSearchDebounce(cfg.Search.Debounce),
	)
	if err != nil {
		return err
	}
	defer sf.Close()

	if err := sf.Bootstrap(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "initial storefront load incomplete")
	}

	page, err := render.New()
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"instance":    instance.GetID(),
		"backend_url": client.BaseURL(),
		"cache":       cfg.Redis.Enabled(),
	})
	logg.Info(logCtx, "starting storefront server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, sf, page, client, cachePinger, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := server.Shutdown(shutdownCtx)
	if serveErr := <-serveErr; !errors.Is(serveErr, http.ErrServerClosed) {
		shutdownErr = multierr.Append(shutdownErr, serveErr)
	}
	return shutdownErr
}
