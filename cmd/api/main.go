package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paralympics-api/internal/seed"
	"paralympics-api/internal/server"
	"paralympics-api/internal/store"
	"paralympics-api/pkg/config"
	"paralympics-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "paralympics-api",
		Short:        "HTTP API for paralympic regions and events",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(newSeedCmd())

	return root
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *sqlx.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer db.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(
		store.NewRegionService(db),
		store.NewEventService(db),
		log,
		server.RouterConfig{CORSAllowOrigins: cfg.CORSAllowOrigins},
	)

	srv := server.New(server.Config{
		Addr:            ":" + cfg.Port,
		MetricsAddr:     cfg.MetricsAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router, log)

	log.Info("starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
	)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func newSeedCmd() *cobra.Command {
	var regionsPath, eventsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load regions and events from CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if regionsPath == "" && eventsPath == "" {
				return fmt.Errorf("at least one of --regions or --events is required")
			}

			ctx := cmd.Context()
			_, log, db, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer db.Close()

			loader := seed.NewLoader(store.NewRegionService(db), store.NewEventService(db), log)

			// Regions go first so events can reference them
			if regionsPath != "" {
				res, err := loadFile(regionsPath, func(f *os.File) (seed.Result, error) {
					return loader.LoadRegions(ctx, f)
				})
				if err != nil {
					return fmt.Errorf("loading regions: %w", err)
				}
				log.Info("regions loaded", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
			}

			if eventsPath != "" {
				res, err := loadFile(eventsPath, func(f *os.File) (seed.Result, error) {
					return loader.LoadEvents(ctx, f)
				})
				if err != nil {
					return fmt.Errorf("loading events: %w", err)
				}
				log.Info("events loaded", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&regionsPath, "regions", "", "path to the regions CSV file")
	cmd.Flags().StringVar(&eventsPath, "events", "", "path to the events CSV file")
	return cmd
}

func loadFile(path string, load func(f *os.File) (seed.Result, error)) (seed.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return seed.Result{}, err
	}
	defer f.Close()
	return load(f)
}
