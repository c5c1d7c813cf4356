// Command store loads the fetched matches and their extracted features into
// Postgres, mirrors per-hero picks into ClickHouse when configured and records
// the latest model metadata.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/models"
	"github.com/dotameta/metalab/internal/schema"
	"github.com/dotameta/metalab/internal/storage"
	"github.com/dotameta/metalab/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Sugar().Errorw("Store failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()

	if err := cfg.RequirePostgres(); err != nil {
		return err
	}

	var records []models.MatchRecord
	if err := dataio.LoadJSON(cfg.DataDir, dataio.MatchDetailsFile, "cmd/fetch", &records); err != nil {
		return err
	}
	rows, err := loadFeatureRows(cfg.DataDir)
	if err != nil {
		return err
	}
	if rows == nil {
		log.Warnw("No processed features found, storing raw matches only",
			"file", dataio.ProcessedCSVFile,
			"hint", "run cmd/extract first")
	}

	pg, err := storage.ConnectPostgres(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := schema.InstallPostgres(ctx, pg); err != nil {
		return err
	}
	log.Infow("Postgres schema ready")

	poolCfg := worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSizeDB,
		FlushInterval: cfg.FlushInterval,
		Postgres:      pg,
		Logger:        logger,
	}

	if cfg.ClickHouseURL != "" {
		var ch driver.Conn
		ch, err = storage.ConnectClickHouse(ctx, cfg.ClickHouseURL)
		if err != nil {
			return err
		}
		defer ch.Close()
		if err := schema.InstallClickHouse(ctx, ch); err != nil {
			return err
		}
		poolCfg.ClickHouse = ch
		log.Infow("ClickHouse schema ready")
	}

	if cfg.RedisURL != "" {
		rdb, err := storage.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnw("Redis unavailable, API cache will expire on its own", "error", err)
		} else {
			defer rdb.Close()
			poolCfg.Redis = rdb
		}
	}

	pool := worker.NewPool(poolCfg)
	pool.Start(ctx)

	enqueued := 0
	for i := range records {
		job := worker.Job{Match: &records[i]}
		if row, ok := rows[records[i].MatchID]; ok {
			job.Features = &row
		}
		if err := pool.Enqueue(ctx, job); err != nil {
			pool.Stop()
			return fmt.Errorf("enqueue match %d: %w", records[i].MatchID, err)
		}
		enqueued++
	}
	pool.Stop()

	stored, failed := pool.Stats()
	log.Infow("Matches loaded",
		"enqueued", enqueued,
		"withFeatures", len(rows),
		"stored", stored,
		"failed", failed,
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d matches failed to store", failed, enqueued)
	}

	store := logic.NewMatchStore(pg)
	if err := storeModelMetadata(ctx, store, cfg.ModelDir, log); err != nil {
		return err
	}

	stats, err := store.MatchStats(ctx)
	if err != nil {
		return err
	}
	log.Infow("Document store summary",
		"totalMatches", stats.TotalMatches,
		"processedMatches", stats.ProcessedMatches,
		"radiantWinRate", stats.RadiantWinRate,
		"modelVersions", stats.ModelVersions,
	)
	return nil
}

// loadFeatureRows returns extracted rows keyed by match id, or nil when the
// CSV has not been produced yet.
func loadFeatureRows(dataDir string) (map[int64]features.Row, error) {
	f, err := dataio.Open(dataDir, dataio.ProcessedCSVFile, "cmd/extract")
	if errors.Is(err, dataio.ErrMissingInput) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := features.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]features.Row, len(rows))
	for _, r := range rows {
		byID[r.MatchID] = r
	}
	return byID, nil
}

func storeModelMetadata(ctx context.Context, store logic.MatchStore, modelDir string, log *zap.SugaredLogger) error {
	var meta models.ModelMetadata
	err := dataio.LoadJSON(modelDir, dataio.MetadataFile, "cmd/train", &meta)
	if errors.Is(err, dataio.ErrMissingInput) {
		log.Infow("No model metadata to record", "dir", modelDir)
		return nil
	}
	if err != nil {
		return err
	}
	if err := store.InsertModelMetadata(ctx, &meta); err != nil {
		return err
	}
	log.Infow("Model metadata recorded", "runID", meta.RunID)
	return nil
}
