package handlers

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	PredictFunc func(req *models.PredictRequest) (*models.PredictResponse, error)
	LoadedVal   bool
	ModelVal    *models.ModelMetadata
}

func (m *MockPredictionService) Predict(req *models.PredictRequest) (*models.PredictResponse, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(req)
	}
	return nil, logic.ErrModelNotLoaded
}
func (m *MockPredictionService) Loaded() bool                 { return m.LoadedVal }
func (m *MockPredictionService) Model() *models.ModelMetadata { return m.ModelVal }

// MockMatchStore
type MockMatchStore struct {
	logic.MatchStore
	MatchStatsFunc func(ctx context.Context) (*models.MatchStats, error)
	TopHeroesFunc  func(ctx context.Context, limit int) ([]models.HeroAggregate, error)
}

func (m *MockMatchStore) MatchStats(ctx context.Context) (*models.MatchStats, error) {
	if m.MatchStatsFunc != nil {
		return m.MatchStatsFunc(ctx)
	}
	return &models.MatchStats{}, nil
}

func (m *MockMatchStore) TopHeroes(ctx context.Context, limit int) ([]models.HeroAggregate, error) {
	if m.TopHeroesFunc != nil {
		return m.TopHeroesFunc(ctx, limit)
	}
	return []models.HeroAggregate{}, nil
}

// MockHeroMetaService
type MockHeroMetaService struct {
	HeroMetaFunc       func(ctx context.Context, q logic.HeroMetaQuery) ([]models.HeroMeta, error)
	DurationSplitFunc  func(ctx context.Context) (*models.DurationSplit, error)
	SideComparisonFunc func(ctx context.Context) (*models.SideStats, error)
}

func (m *MockHeroMetaService) HeroMeta(ctx context.Context, q logic.HeroMetaQuery) ([]models.HeroMeta, error) {
	if m.HeroMetaFunc != nil {
		return m.HeroMetaFunc(ctx, q)
	}
	return []models.HeroMeta{}, nil
}

func (m *MockHeroMetaService) DurationSplit(ctx context.Context) (*models.DurationSplit, error) {
	if m.DurationSplitFunc != nil {
		return m.DurationSplitFunc(ctx)
	}
	return &models.DurationSplit{}, nil
}

func (m *MockHeroMetaService) SideComparison(ctx context.Context) (*models.SideStats, error) {
	if m.SideComparisonFunc != nil {
		return m.SideComparisonFunc(ctx)
	}
	return &models.SideStats{}, nil
}

// MockPg implements PgConn
type MockPg struct {
	PingErr error
	ExecErr error
	Execs   []string
}

func (m *MockPg) Ping(ctx context.Context) error { return m.PingErr }
func (m *MockPg) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, sql)
	return pgconn.CommandTag{}, m.ExecErr
}

// MockClickHouseConn implements driver.Conn
type MockClickHouseConn struct {
	driver.Conn
	PingErr error
	ExecErr error
	Execs   []string
}

func (m *MockClickHouseConn) Ping(ctx context.Context) error { return m.PingErr }
func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...any) error {
	m.Execs = append(m.Execs, query)
	return m.ExecErr
}

// MockRedis implements RedisPinger
type MockRedis struct {
	PingErr error
}

func (m *MockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	if m.PingErr != nil {
		return redis.NewStatusResult("", m.PingErr)
	}
	return redis.NewStatusResult("PONG", nil)
}
