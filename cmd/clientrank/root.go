package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank"
	"github.com/kailas-cloud/clientrank/internal/config"
	logpkg "github.com/kailas-cloud/clientrank/internal/logger"
	"github.com/kailas-cloud/clientrank/internal/version"
)

// envFlag selects config/<env>.yaml. Empty falls back to $ENV, then "local".
var envFlag string

var rootCmd = &cobra.Command{
	Use:   "clientrank",
	Short: "Client ranking and filtering engine",
	Long: `clientrank orders an advisor's client book: filters by AUM, tier, risk
profile and profile completeness, blends semantic search hits, and tracks
recently opened clients.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("clientrank " + version.String() + "\n")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Config environment: local, prod (default: $ENV or local)")
}

func resolveEnv() string {
	if envFlag != "" {
		return envFlag
	}
	return config.GetEnv()
}

// loadRuntime loads config and builds the logger shared by all commands.
func loadRuntime() (config.Config, *zap.Logger, string, error) {
	env := resolveEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, env, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.New(env, cfg.Logging)
	if err != nil {
		return config.Config{}, nil, env, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}

// newSDKClient opens the configured recency storage through the public SDK.
// extra options are applied last.
func newSDKClient(
	ctx context.Context, cfg config.Config, logger *zap.Logger, extra ...clientrank.Option,
) (*clientrank.Client, error) {
	opts := []clientrank.Option{
		clientrank.WithKeyPrefix(cfg.Storage.KeyPrefix),
		clientrank.WithRecencyCapacity(cfg.Recency.Capacity),
		clientrank.WithStaleContactDays(cfg.Ranking.StaleContactDays),
		clientrank.WithSemanticMinQuery(cfg.Ranking.SemanticMinQuery),
		clientrank.WithAbsoluteMaxAUM(cfg.Ranking.AUMAbsoluteMax),
		clientrank.WithLogger(logger),
	}
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		opts = append(opts, clientrank.WithInMemory())
	case config.DriverRedis:
		opts = append(opts, clientrank.WithRedis(cfg.Storage.Password, cfg.Storage.Addrs...))
	default:
		opts = append(opts, clientrank.WithBadger(cfg.Storage.Path))
	}
	opts = append(opts, extra...)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second)
	defer cancel()
	c, err := clientrank.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return c, nil
}
