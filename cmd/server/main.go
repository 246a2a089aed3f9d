package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aerovista/core/internal/app"
	"github.com/aerovista/core/internal/config"
	"github.com/aerovista/core/internal/database"
	"github.com/aerovista/core/internal/modules/importer"
	"github.com/aerovista/core/internal/pkg/jwt"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	importMongo := flag.String("import-mongo", "", "Import legacy MongoDB data from the given URI and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if *importMongo != "" {
		runImport(cfg, logger, *importMongo)
		return
	}

	application, err := app.New(logger, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    application.Addr(),
		Handler: application.Router(),
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// runImport performs a one-shot legacy data migration and exits.
func runImport(cfg *config.AppConfig, logger *zap.Logger, uri string) {
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := importer.New(db, logger).Run(ctx, uri)
	if err != nil {
		logger.Fatal("legacy import failed", zap.Error(err))
	}
	for collection, n := range report.Imported {
		logger.Info("import complete",
			zap.String("collection", collection),
			zap.Int("imported", n),
			zap.Int("skipped", report.Skipped[collection]))
	}
}
