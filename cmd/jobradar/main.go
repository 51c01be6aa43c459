// Package main wires together the radar service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/api"
	"github.com/jobradar/jobradar/internal/config"
	"github.com/jobradar/jobradar/internal/enrich"
	"github.com/jobradar/jobradar/internal/fetch"
	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/lead"
	"github.com/jobradar/jobradar/internal/logging"
	"github.com/jobradar/jobradar/internal/sched"
	"github.com/jobradar/jobradar/internal/source"
	"github.com/jobradar/jobradar/internal/store/memory"
	"github.com/jobradar/jobradar/internal/store/postgres"
	"github.com/jobradar/jobradar/internal/sweep"
)

const enrichKeyEnv = "JOBRADAR_ENRICH_API_KEY"

// stores is the set of persistence contracts the service needs, satisfied
// by both the Postgres and the in-memory implementation.
type stores interface {
	lead.LeadStore
	lead.ZoneStore
	lead.SourceStore
}

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db stores
	if cfg.DB.DSN != "" {
		pgStore, err := postgres.New(ctx, postgres.Config{
			DSN:             cfg.DB.DSN,
			MaxConns:        int32(cfg.DB.MaxConns),
			MinConns:        int32(cfg.DB.MinConns),
			MaxConnLifetime: cfg.ConnLifetime(),
		})
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
		defer pgStore.Close()
		db = pgStore
		logger.Info("using postgres store")
	} else {
		db = memory.New()
		logger.Info("using in-memory store, leads will not survive restarts")
	}

	if err := db.SeedBuiltins(ctx, source.Builtins()); err != nil {
		logger.Fatal("seed builtin sources failed", zap.Error(err))
	}

	var renderer lead.Renderer
	if cfg.Headless.Enabled {
		chromeRenderer, err := fetch.NewChromedpRenderer(fetch.RendererConfig{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Headless.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Warn("headless renderer init failed", zap.Error(err))
			renderer = fetch.NewNoopRenderer()
		} else {
			renderer = chromeRenderer
		}
	} else {
		renderer = fetch.NewNoopRenderer()
	}
	defer renderer.Close()

	boards := fetch.NewClient(fetch.ClientConfig{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})

	var enricher lead.Enricher = enrich.Nop{}
	if key := os.Getenv(enrichKeyEnv); key != "" && cfg.Enrich.BaseURL != "" {
		enricher = enrich.NewClient(cfg.Enrich.BaseURL, key, nil)
		logger.Info("company enrichment enabled")
	}

	registry := source.NewRegistry()
	ingestSvc := ingest.New(registry, db, db, enricher, logger.Named("ingest"))
	sweeper := sweep.New(db, db, registry, renderer, boards, ingestSvc, logger.Named("sweep"))

	if cfg.Sweep.Enabled {
		if !cfg.Headless.Enabled {
			// ATS board sources still sweep over plain HTTP; aggregator
			// units will fail per-unit until rendering is enabled.
			logger.Warn("sweep enabled without headless rendering, aggregator sources will be skipped")
		}
		scheduler := sched.New(sweeper, cfg.Sweep.Schedule, logger.Named("sched"))
		if err := scheduler.Start(ctx); err != nil {
			logger.Fatal("scheduler start failed", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	apiServer := api.NewServer(ingestSvc, sweeper, db, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
