package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberwatch/fireline/internal/api"
	"github.com/emberwatch/fireline/internal/config"
	"github.com/emberwatch/fireline/internal/dataset"
	"github.com/emberwatch/fireline/internal/iap"
	"github.com/emberwatch/fireline/internal/logging"
	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
	"github.com/emberwatch/fireline/internal/perimeter"
	"github.com/emberwatch/fireline/internal/repository"
	"github.com/emberwatch/fireline/internal/spread"
	"github.com/emberwatch/fireline/internal/terrain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	store, err := repository.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	metrics := observability.NewMetrics()
	batch := perimeter.NewBatchProcessor(cfg.Engine.Workers, metrics)

	// The index prefers preprocessed perimeters from the store and falls
	// back to processing the raw GeoJSON dataset in memory.
	source := func(ctx context.Context) ([]models.DirectionalSpread, error) {
		// A lazy build can be triggered by any request, but the result is
		// process-wide state. It must not die with one client's connection.
		ctx = context.WithoutCancel(ctx)

		perimeters, err := store.List(ctx, repository.Filter{})
		if err != nil {
			return nil, err
		}
		if len(perimeters) == 0 {
			slog.Info("no preprocessed perimeters stored, processing raw dataset", "path", cfg.Datasets.PerimeterPath)
			raws, err := dataset.LoadFirePerimeters(cfg.Datasets.PerimeterPath)
			if err != nil {
				return nil, err
			}
			perimeters, _ = batch.ProcessAll(ctx, raws)
		}

		spreads := make([]models.DirectionalSpread, 0, len(perimeters))
		for _, p := range perimeters {
			spreads = append(spreads, spread.FromPerimeter(p))
		}
		return spreads, nil
	}

	index := spread.NewIndex(source, metrics)
	predictor := spread.NewPredictor(index, metrics)
	analyzer := terrain.NewAnalyzer(terrain.NewSyntheticProvider())

	iapRecords, err := dataset.LoadIAPRecords(cfg.Datasets.IAPPath)
	if err != nil {
		slog.Warn("IAP dataset unavailable, matcher will return no insights", "path", cfg.Datasets.IAPPath, "error", err)
	}
	matcher := iap.NewMatcher(iapRecords, metrics)

	// Build the index up front so the first request doesn't pay for it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if n, err := index.Len(ctx); err != nil {
		slog.Error("initial index build failed, will retry lazily", "error", err)
	} else {
		slog.Info("index ready", "fires", n)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // wildcard origins require this off
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(store, index, predictor, analyzer, matcher, cfg.Engine.DefaultRadiusKm)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
