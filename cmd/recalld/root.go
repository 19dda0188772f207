package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/api"
	"github.com/recallstack/recall/pkg/ingest"
	"github.com/recallstack/recall/pkg/maintain"
	"github.com/recallstack/recall/pkg/metrics"
	"github.com/recallstack/recall/pkg/retrieval"
	"github.com/recallstack/recall/pkg/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "recalld",
	Short: "Self-hosted memory store for conversational agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the recalld version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	viper.SetEnvPrefix("RECALL")
	viper.AutomaticEnv()
	viper.SetDefault("port", 8230)
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("debug", false)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recall"
	}
	return filepath.Join(home, ".recall")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serve() error {
	port := viper.GetInt("port")
	dataDir := viper.GetString("data_dir")

	logger, err := newLogger(viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := store.Open(filepath.Join(dataDir, "recall.db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	collector := metrics.NewCollector()
	memories := store.NewMemoryStore(db.DB())
	facts := store.NewProfileStore(db.DB())

	ingestSvc := ingest.NewService(memories, logger, collector)
	retrievalSvc := retrieval.NewService(memories, facts, logger, collector)
	maintainSvc := maintain.NewService(memories, facts, db, logger, collector)

	handlers := api.NewHandlers(ingestSvc, retrievalSvc, maintainSvc, logger, Version)
	router := api.NewRouter(handlers, collector.Registry(), logger)

	server := api.NewServer(router, fmt.Sprintf(":%d", port), logger)
	if err := server.Start(); err != nil {
		return err
	}

	logger.Info("recalld started",
		zap.String("version", Version),
		zap.Int("port", port),
		zap.String("data_dir", dataDir),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-server.Err():
		return fmt.Errorf("server failed: %w", err)
	}

	// Drain in-flight requests, then the deferred Close flushes the store.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("recalld stopped")
	return nil
}
