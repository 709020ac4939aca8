package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avaldez-dev/tillpoint/api/controllers"
	"github.com/avaldez-dev/tillpoint/api/routes"
	"github.com/avaldez-dev/tillpoint/internal/catalog"
	"github.com/avaldez-dev/tillpoint/internal/held"
	"github.com/avaldez-dev/tillpoint/internal/invoice"
	"github.com/avaldez-dev/tillpoint/internal/rates"
	"github.com/avaldez-dev/tillpoint/internal/register"
	"github.com/avaldez-dev/tillpoint/internal/settlement"
	"github.com/avaldez-dev/tillpoint/pkg/config"
	"github.com/avaldez-dev/tillpoint/pkg/db"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/metrics"
	"github.com/avaldez-dev/tillpoint/pkg/migrate"
	"github.com/avaldez-dev/tillpoint/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	staticRates, err := rates.ParseStaticSpec(cfg.Rates.Static)
	if err != nil {
		logg.Error(context.Background(), "failed to parse exchange rates", err)
		os.Exit(1)
	}
	var ratesProvider rates.Provider = staticRates
	if cfg.FeatureFlags.RatesCache {
		ratesProvider = rates.NewCachedProvider(staticRates, redisClient, cfg.Rates.CacheTTL, logg)
	}

	heldSvc, err := held.NewService(dbClient, held.NewRepository(dbClient.DB()), cfg.Engine.HeldCodeLength)
	if err != nil {
		logg.Error(context.Background(), "failed to create hold service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	stats := metrics.NewSettlementMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	engine, err := settlement.NewEngine(
		dbClient,
		catalogRepo,
		settlement.NewRepository(dbClient.DB()),
		heldSvc,
		ratesProvider,
		invoice.NewAllocator(),
		stats,
		logg,
		cfg.Engine.InvoiceRetryBudget,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement engine", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Idem:      redisClient,
		Registers: register.NewStore(),
		Catalog:   catalogRepo,
		Engine:    engine,
		Held:      heldSvc,
		Probes: map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		},
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
