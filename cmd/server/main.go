package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/appsource"
	"github.com/garyjia/travel-settlement/internal/config"
	"github.com/garyjia/travel-settlement/internal/engine"
	httpserver "github.com/garyjia/travel-settlement/internal/interfaces/http"
	"github.com/garyjia/travel-settlement/internal/reference"
	"github.com/garyjia/travel-settlement/internal/service"
	"github.com/garyjia/travel-settlement/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting travel settlement service",
		zap.Int("port", cfg.Server.Port),
		zap.Float64("reference_rate", cfg.Settlement.ReferenceRate))

	// Reference tables: currency and expense-item tables ship built in; the
	// per-diem location table can come from a finance-maintained workbook.
	currencies := reference.BuiltinCurrencies()
	items := reference.BuiltinExpenseItems()
	locations := reference.BuiltinLocations()
	if path := cfg.Reference.LocationTablePath; path != "" {
		locations, err = reference.LoadLocationsXLSX(path)
		if err != nil {
			logger.Fatal("failed to load location table", zap.String("path", path), zap.Error(err))
		}
		logger.Info("location table loaded",
			zap.String("path", path),
			zap.Int("rows", len(locations.Locations())))
	}

	resolver := engine.NewPerDiemResolver(locations)
	classifier := engine.NewClassifier(items)
	apportioner := engine.NewApportioner(cfg.Settlement.ReferenceRate)
	eng := engine.NewEngine(apportioner, logger)
	applier := engine.NewApplier(resolver, classifier, currencies)

	source := appsource.NewMockSource(appsource.BuiltinPool(), cfg.AppSource.FetchLatency, logger)

	documents := service.NewDocumentService(eng, applier, resolver, classifier, currencies, source, logger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, documents, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}

	logger.Info("server exited")
}
