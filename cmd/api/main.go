package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/meridianlabs/lims-backend/api/controllers"
	"github.com/meridianlabs/lims-backend/api/routes"
	"github.com/meridianlabs/lims-backend/internal/flagging"
	"github.com/meridianlabs/lims-backend/internal/hl7"
	"github.com/meridianlabs/lims-backend/internal/ingestion"
	"github.com/meridianlabs/lims-backend/internal/orders"
	"github.com/meridianlabs/lims-backend/internal/quarantine"
	"github.com/meridianlabs/lims-backend/internal/results"
	"github.com/meridianlabs/lims-backend/pkg/config"
	"github.com/meridianlabs/lims-backend/pkg/db"
	"github.com/meridianlabs/lims-backend/pkg/logger"
	"github.com/meridianlabs/lims-backend/pkg/metrics"
	"github.com/meridianlabs/lims-backend/pkg/migrate"
	"github.com/meridianlabs/lims-backend/pkg/redis"
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

	// Redis only backs the rule-set cache; the pipeline runs without it.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, rule-set caching disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestionMetrics := metrics.NewIngestionMetrics(registry)

	conn := dbClient.DB()
	flagRepo := flagging.NewRepository(conn)
	ruleSource := flagging.NewCachedRuleSource(flagRepo, redisClient, cfg.Flagging.RuleSetCacheTTL, logg)

	ingestService := ingestion.NewService(ingestion.Params{
		Tx:             dbClient,
		Parser:         hl7.NewParser(cfg.HL7.TempCodePrefix),
		Repo:           ingestion.NewRepository(conn),
		OrderDir:       orders.NewDirectory(conn),
		ResultRepo:     results.NewRepository(conn),
		QuarantineRepo: quarantine.NewRepository(conn),
		Flags:          flagging.NewEngine(ruleSource, flagRepo, ingestionMetrics),
		Log:            logg,
		Metrics:        ingestionMetrics,
		HL7:            cfg.HL7,
	})
	quarantineService := quarantine.NewService(quarantine.NewRepository(conn), logg)

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

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisPinger, ingestService, quarantineService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
