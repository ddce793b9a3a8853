package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"order-catalog-service/internal/config"
	"order-catalog-service/internal/store"
	"order-catalog-service/internal/telemetry"
)

const defaultAppName = "OrderCatalogService"

var (
	rootCmd = &cobra.Command{
		Use:           "order-catalog-service",
		Short:         "Catalog, order and sales metrics service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE:  serve,
	}

	migrateCmd = &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE:      migrateDB,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo catalog and orders",
		RunE:  seedDB,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	downSteps int
	version   = "dev"
)

func main() {
	migrateCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back with down")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", defaultAppName, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger every command shares.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger, err := telemetry.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("service", defaultAppName))
	return cfg, logger, nil
}

func storeOptions(cfg *config.Config, automigrate bool) store.Options {
	return store.Options{
		DSN:          cfg.Postgres.DSN(),
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
		Automigrate:  automigrate,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	}
}

func migrateDB(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer telemetry.SyncLogger(logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := store.Connect(ctx, storeOptions(cfg, false), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	var n int
	if direction == "down" {
		n, err = db.MigrateDown(downSteps)
	} else {
		n, err = db.Migrate()
	}
	if err != nil {
		return err
	}
	logger.Info("migrations applied", zap.String("direction", direction), zap.Int("count", n))
	return nil
}

func seedDB(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer telemetry.SyncLogger(logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := store.Connect(ctx, storeOptions(cfg, true), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Seed(ctx); err != nil {
		return err
	}
	logger.Info("database seeded")
	return nil
}
