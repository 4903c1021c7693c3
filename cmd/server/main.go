package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/querylens/sqlscope/backend/internal/api"
	"github.com/querylens/sqlscope/backend/internal/config"
	"github.com/querylens/sqlscope/backend/internal/embedding"
)

// version is injected during build by ldflags
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:          "sqlscope",
		Short:        "Embedded-SQL inspector for Laravel codebases",
		Version:      version,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	cfg := config.Load()
	logger := newLogger()
	defer logger.Sync()

	embedder, err := embedding.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	h := api.NewHandler(cfg, embedder, logger)
	defer h.Close()

	app := fiber.New(fiber.Config{
		AppName: "SQLScope API",
	})
	api.SetupRoutes(app, h)

	logger.Info("starting sqlscope backend",
		zap.String("port", cfg.Port),
		zap.String("embed_provider", cfg.EmbedProvider))
	return app.Listen(":" + cfg.Port)
}

// newLogger returns a new logger at info level
func newLogger() *zap.Logger {
	logConf := zap.NewDevelopmentConfig()
	logConf.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger, err := logConf.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger. error: %v", err)
	}

	// Set logger on debug level when "ENABLE_DEBUG" env variable is true
	if os.Getenv("ENABLE_DEBUG") == "true" {
		logConf.Level.SetLevel(zap.DebugLevel)
	}
	return logger
}
