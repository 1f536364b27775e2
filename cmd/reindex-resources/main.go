package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/database"
	"github.com/P3chys/studyshare-api/internal/logger"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/services"
)

const batchSize = 100

// reindex-resources rebuilds the Meilisearch index from the postgres store.
func main() {
	cfg := config.Load()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DatabaseURL, false)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	searchService := services.NewSearchService(cfg, logr)
	ctx := context.Background()

	resources, err := store.Resources.List(ctx)
	if err != nil {
		logr.Fatal("failed to load resources", zap.Error(err))
	}

	indexCount, err := searchService.GetResourceCount()
	if err != nil {
		logr.Fatal("failed to get resource count from Meilisearch", zap.Error(err))
	}

	logr.Info("starting reindex",
		zap.Int("resources_in_db", len(resources)),
		zap.Int64("resources_in_index", indexCount))

	totalIndexed := 0
	for _, batch := range batches(resources, batchSize) {
		if err := searchService.IndexResources(batch); err != nil {
			logr.Warn("failed to index batch", zap.Int("offset", totalIndexed), zap.Error(err))
			continue
		}
		totalIndexed += len(batch)
		logr.Info("indexed batch", zap.Int("size", len(batch)), zap.Int("total", totalIndexed))
		time.Sleep(100 * time.Millisecond) // Be nice to Meilisearch
	}

	finalCount, err := searchService.GetResourceCount()
	if err != nil {
		logr.Warn("failed to get final count", zap.Error(err))
	}
	logr.Info("reindexing completed", zap.Int("indexed", totalIndexed), zap.Int64("index_count", finalCount))
}

func batches(resources []models.Resource, size int) [][]models.Resource {
	var out [][]models.Resource
	for start := 0; start < len(resources); start += size {
		end := min(start+size, len(resources))
		out = append(out, resources[start:end])
	}
	return out
}
