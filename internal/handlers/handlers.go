package handlers

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Version is reported by the service index.
const Version = "1.0.0"

// PgConn is the subset of *pgxpool.Pool the handlers use directly.
type PgConn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisPinger is the subset of *redis.Client used by readiness checks.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Config carries every dependency of the API. Nil dependencies disable the
// routes that need them.
type Config struct {
	Postgres   PgConn
	ClickHouse driver.Conn
	Redis      RedisPinger
	Logger     *zap.Logger
	// Services
	Matches    logic.MatchStore
	HeroMeta   logic.HeroMetaService
	Prediction logic.PredictionService
}

type Handler struct {
	pg         PgConn
	ch         driver.Conn
	redis      RedisPinger
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	matches    logic.MatchStore
	heroMeta   logic.HeroMetaService
	prediction logic.PredictionService
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Prediction == nil {
		cfg.Prediction = logic.NewPredictionService(nil)
	}
	return &Handler{
		pg:         cfg.Postgres,
		ch:         cfg.ClickHouse,
		redis:      cfg.Redis,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		matches:    cfg.Matches,
		heroMeta:   cfg.HeroMeta,
		prediction: cfg.Prediction,
	}
}
