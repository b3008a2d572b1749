// server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rexlx/kisanforum/config"
	"github.com/rexlx/kisanforum/forum"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kisanforum",
	Short: "Community forum service for the farmer demo site",
	Long: `kisanforum serves the demo site's community forum.

Topics and replies are kept as one serialized collection in a single storage
slot (a JSON file, SQLite, Postgres, Redis or memory). When demo content is
enabled, an empty forum is seeded and listing keeps it looking active.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// openStore builds the configured backend and wraps it in a Store.
func openStore(ctx context.Context) (*forum.Store, error) {
	sc := cfg.Storage
	var (
		backend forum.Backend
		err     error
	)
	switch sc.Backend {
	case config.BackendMemory:
		backend = forum.NewMemoryBackend()
	case config.BackendFile:
		backend, err = forum.NewFileBackend(sc.Path)
	case config.BackendSQLite:
		backend, err = forum.NewSQLiteBackend(sc.Path)
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		backend, err = forum.NewPostgresBackend(ctx, sc.DatabaseURL)
	case config.BackendRedis:
		backend, err = forum.NewRedisBackend(sc.RedisAddr, sc.RedisPass, 3)
	default:
		err = fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("opened storage", zap.String("backend", sc.Backend))

	opts := []forum.Option{forum.WithLogger(logger.Named("store"))}
	if sc.Strict {
		opts = append(opts, forum.WithStrictDecode())
	}
	if cfg.Demo.Enabled {
		var gen *forum.Generator
		if cfg.Demo.Seed != 0 {
			gen = forum.NewSeededGenerator(cfg.Demo.Seed)
		} else {
			gen = forum.NewGenerator(nil)
		}
		opts = append(opts, forum.WithDemo(gen, cfg.Demo.MinPerCategory))
	}
	return forum.NewStore(backend, opts...), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "forum.yaml", "path to the YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, seedCmd, listCmd, showCmd, hashPasswordCmd, initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
