package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pricescout/backend/config"
	httpDelivery "github.com/pricescout/backend/internal/delivery/http"
	"github.com/pricescout/backend/internal/infrastructure/cache"
	"github.com/pricescout/backend/internal/infrastructure/retailer"
	"github.com/pricescout/backend/internal/logger"
	"github.com/pricescout/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Local development reads secrets from .env; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	zlog.Info("starting pricescout backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Duration("overall_timeout", cfg.Aggregator.OverallTimeout))

	// Infrastructure: result cache plus one provider per retailer, live or
	// stub depending on configured credentials
	resultCache := cache.NewMemoryCache()
	providers := retailer.BuildProviders(cfg, zlog)

	// Usecase layer
	comparisonService := usecase.NewComparisonService(
		providers,
		resultCache,
		zlog,
		usecase.ComparisonServiceConfig{
			CacheTTL:       cfg.Cache.TTL,
			OverallTimeout: cfg.Aggregator.OverallTimeout,
		},
	)

	// HTTP boundary
	handler := httpDelivery.NewHandler(comparisonService, zlog, cfg.Server.Environment)
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
