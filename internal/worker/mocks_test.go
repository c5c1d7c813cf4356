package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// MockPostgres implements PgBatcher and records every queued statement
type MockPostgres struct {
	mu         sync.Mutex
	Statements []string
	Args       [][]any
	ExecErr    error
}

func (m *MockPostgres) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range b.QueuedQueries {
		m.Statements = append(m.Statements, q.SQL)
		m.Args = append(m.Args, q.Arguments)
	}
	return &MockBatchResults{err: m.ExecErr}
}

func (m *MockPostgres) count(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Statements {
		if containsInsert(s, prefix) {
			n++
		}
	}
	return n
}

// MockBatchResults implements pgx.BatchResults
type MockBatchResults struct {
	err error
}

func (m *MockBatchResults) Exec() (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), m.err
}
func (m *MockBatchResults) Query() (pgx.Rows, error) { return nil, m.err }
func (m *MockBatchResults) QueryRow() pgx.Row        { return nil }
func (m *MockBatchResults) Close() error             { return nil }

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	mu       sync.Mutex
	Batches  []*MockBatch
	SendErr  error
	Prepared int
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prepared++
	b := &MockBatch{sendErr: m.SendErr}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockClickHouseConn) rows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]interface{}
	for _, b := range m.Batches {
		if b.sent {
			out = append(out, b.appended...)
		}
	}
	return out
}

// MockBatch implements driver.Batch
type MockBatch struct {
	driver.Batch
	appended [][]interface{}
	sent     bool
	sendErr  error
}

func (m *MockBatch) IsSent() bool { return m.sent }
func (m *MockBatch) Rows() int    { return len(m.appended) }
func (m *MockBatch) Abort() error { return nil }
func (m *MockBatch) Flush() error { return nil }

func (m *MockBatch) Append(v ...interface{}) error {
	m.appended = append(m.appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}

// MockCache implements CacheStore
type MockCache struct {
	mu      sync.Mutex
	Keys    []string
	Deleted []string
}

func (m *MockCache) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	return redis.NewScanCmdResult(m.Keys, 0, nil)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}
