// Command preprocess runs the perimeter processor over the raw historical
// dataset and stores the survivors, so the API server can skip in-memory
// processing on startup.
package main

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/emberwatch/fireline/internal/config"
	"github.com/emberwatch/fireline/internal/dataset"
	"github.com/emberwatch/fireline/internal/logging"
	"github.com/emberwatch/fireline/internal/observability"
	"github.com/emberwatch/fireline/internal/perimeter"
	"github.com/emberwatch/fireline/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	raws, err := dataset.LoadFirePerimeters(cfg.Datasets.PerimeterPath)
	if err != nil {
		logging.Fatalf("Failed to load perimeter dataset: %v", err)
	}
	slog.Info("loaded raw perimeter records", "count", len(raws), "path", cfg.Datasets.PerimeterPath)

	store, err := repository.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	batch := perimeter.NewBatchProcessor(cfg.Engine.Workers, observability.NewMetrics())
	perimeters, stats := batch.ProcessAll(ctx, raws)

	var saved int
	for i := range perimeters {
		if err := store.Save(ctx, &perimeters[i]); err != nil {
			slog.Error("failed to save perimeter", "fire_id", perimeters[i].FireID, "error", err)
			continue
		}
		saved++
	}

	slog.Info("preprocess complete",
		"successful", stats.Successful,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"saved", saved,
		"db", cfg.DB.Path,
	)
}
