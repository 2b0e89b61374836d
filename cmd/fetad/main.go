package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/stevecallear/feta/internal/api"
	"github.com/stevecallear/feta/internal/config"
	"github.com/stevecallear/feta/internal/expr"
	"github.com/stevecallear/feta/internal/snapshot"
	"github.com/stevecallear/feta/internal/store"
	"github.com/stevecallear/feta/internal/telemetry"
	"github.com/stevecallear/feta/internal/tracking"
	"github.com/stevecallear/feta/internal/watch"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("validate config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	telemetry.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, store.Options{
		Type: cfg.StoreType,
		Path: cfg.ConfigFile,
		DSN:  cfg.DatabaseDSN,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create store")
	}
	defer st.Close()

	compiler, err := expr.NewCELCompiler()
	if err != nil {
		logger.Fatal().Err(err).Msg("create compiler")
	}

	doc, err := st.LoadConfig(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}
	snap, err := snapshot.Build(doc, compiler)
	if err != nil {
		logger.Fatal().Err(err).Msg("build snapshot")
	}
	registry := snapshot.NewRegistry(snap)
	telemetry.SnapshotFeatures.Set(float64(snap.Features.Len()))
	logger.Info().Int("features", snap.Features.Len()).Str("etag", snap.ETag).Msg("snapshot loaded")

	var dispatcher *tracking.Dispatcher
	if cfg.TrackingBuffer > 0 {
		dispatcher = tracking.NewDispatcher(tracking.NewLogSink(logger), cfg.TrackingBuffer, logger)
		defer dispatcher.Close()
	}

	srv := api.NewServer(api.Options{
		Registry:    registry,
		Store:       st,
		Compiler:    compiler,
		Dispatcher:  dispatcher,
		AdminAPIKey: cfg.AdminAPIKey,
		RateLimit:   cfg.RateLimitPerIP,
		Logger:      logger,
	})

	if cfg.StoreType == "file" && cfg.Watch {
		w, err := watch.New(cfg.ConfigFile, 0, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create watcher")
		}
		defer w.Close()
		go w.Run(ctx, func() error { return srv.Rebuild(ctx) })
	}

	httpSrv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     srv.Router(),
		ReadTimeout: 3 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("metrics server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
	_ = metricsSrv.Shutdown(shutCtx)
	logger.Info().Msg("stopped")
}
