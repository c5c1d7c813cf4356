package logic

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// MockPgPool implements PgPool
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	LastArgs     []any
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.LastArgs = args
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPGXRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.LastArgs = args
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPGXRow{}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.LastArgs = args
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// MockPGXRow
type MockPGXRow struct {
	Values []any
	Error  error
}

func (m *MockPGXRow) Scan(dest ...any) error {
	if m.Error != nil {
		return m.Error
	}
	for i, val := range m.Values {
		if i < len(dest) {
			assign(dest[i], val)
		}
	}
	return nil
}

// MockPGXRows
type MockPGXRows struct {
	Data  [][]any
	Index int
}

func (m *MockPGXRows) Close()                                       {}
func (m *MockPGXRows) Err() error                                   { return nil }
func (m *MockPGXRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *MockPGXRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *MockPGXRows) Values() ([]any, error)                       { return nil, nil }
func (m *MockPGXRows) RawValues() [][]byte                          { return nil }
func (m *MockPGXRows) Conn() *pgx.Conn                              { return nil }

func (m *MockPGXRows) Next() bool {
	m.Index++
	return m.Index <= len(m.Data)
}

func (m *MockPGXRows) Scan(dest ...any) error {
	for i, val := range m.Data[m.Index-1] {
		if i < len(dest) {
			assign(dest[i], val)
		}
	}
	return nil
}

// MockRedis is an in-memory RedisClient. Fail makes every call error.
type MockRedis struct {
	Store map[string]string
	Fail  bool
	Gets  int
	Sets  int
}

func NewMockRedis() *MockRedis {
	return &MockRedis{Store: map[string]string{}}
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	m.Gets++
	if m.Fail {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.Store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.Sets++
	if m.Fail {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		m.Store[key] = string(v)
	case string:
		m.Store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}
