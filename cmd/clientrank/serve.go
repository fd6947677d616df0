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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank/internal/config"
	"github.com/kailas-cloud/clientrank/internal/db"
	dbBadger "github.com/kailas-cloud/clientrank/internal/db/badger"
	dbRedis "github.com/kailas-cloud/clientrank/internal/db/redis"
	"github.com/kailas-cloud/clientrank/internal/metrics"
	reporecency "github.com/kailas-cloud/clientrank/internal/repository/recency"
	chiTransport "github.com/kailas-cloud/clientrank/internal/transport/chi"
	healthuc "github.com/kailas-cloud/clientrank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
	recencyuc "github.com/kailas-cloud/clientrank/internal/usecase/recency"
	"github.com/kailas-cloud/clientrank/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, env, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting clientrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	store, err := openStore(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
		// ranking works without recency; the health endpoint reports degraded
		logger.Warn("Storage not ready, recent history unavailable", zap.Error(err))
	} else {
		logger.Info("Connected to storage")
	}

	// Register metrics explicitly (no init())
	metrics.Register()

	recencyRepo := reporecency.New(store, cfg.RecencyKey())
	recencySvc := recencyuc.New(recencyRepo, cfg.Recency.Capacity, nil, metrics.RecencyRecorder{}, logger)
	rankingSvc := rankinguc.New(rankinguc.Config{
		AbsoluteMaxAUM:   cfg.Ranking.AUMAbsoluteMax,
		SemanticMinQuery: cfg.Ranking.SemanticMinQuery,
		StaleContactDays: cfg.Ranking.StaleContactDays,
	}, recencySvc, nil, metrics.RankingRecorder{}, nil, logger)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(rankingSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func openStore(cfg config.StorageConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return dbBadger.NewStore(dbBadger.Config{InMemory: true, Logger: logger})
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case config.DriverBadger:
		return dbBadger.NewStore(dbBadger.Config{Path: cfg.Path, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
