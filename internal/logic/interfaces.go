package logic

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/dotameta/metalab/internal/models"
)

var (
	// ErrModelNotLoaded is returned by predictions when no model bundle is loaded.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrAnalyticsDisabled is returned when ClickHouse is not configured.
	ErrAnalyticsDisabled = errors.New("hero analytics disabled: CLICKHOUSE_URL not set")

	// ErrNotFound is returned when a lookup has no result.
	ErrNotFound = errors.New("not found")
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// MatchStore reads the Postgres document store.
type MatchStore interface {
	MatchStats(ctx context.Context) (*models.MatchStats, error)
	TopHeroes(ctx context.Context, limit int) ([]models.HeroAggregate, error)
	LatestModel(ctx context.Context) (*models.ModelMetadata, error)
	InsertModelMetadata(ctx context.Context, meta *models.ModelMetadata) error
}

// HeroMetaService answers hero analytics queries from ClickHouse.
type HeroMetaService interface {
	HeroMeta(ctx context.Context, q HeroMetaQuery) ([]models.HeroMeta, error)
	DurationSplit(ctx context.Context) (*models.DurationSplit, error)
	SideComparison(ctx context.Context) (*models.SideStats, error)
}

// PredictionService scores match states with the loaded model.
type PredictionService interface {
	Predict(req *models.PredictRequest) (*models.PredictResponse, error)
	Loaded() bool
	Model() *models.ModelMetadata
}
