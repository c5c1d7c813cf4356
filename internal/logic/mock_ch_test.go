package logic

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockConn implements driver.Conn for testing
type MockConn struct {
	driver.Conn
	QueryFunc    func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
	QueryRowFunc func(ctx context.Context, query string, args ...interface{}) driver.Row
	QueryCalls   int
	LastQuery    string
	LastArgs     []interface{}
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.QueryCalls++
	m.LastQuery, m.LastArgs = query, args
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query, args...)
	}
	return &MockRows{}, nil
}

func (m *MockConn) QueryRow(ctx context.Context, query string, args ...interface{}) driver.Row {
	m.LastQuery, m.LastArgs = query, args
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, query, args...)
	}
	return &MockRow{}
}

// MockRows implements driver.Rows for testing
type MockRows struct {
	driver.Rows
	Data  [][]interface{}
	Index int
}

func (m *MockRows) Next() bool {
	m.Index++
	return m.Index <= len(m.Data)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.Index > len(m.Data) {
		return nil
	}
	row := m.Data[m.Index-1]
	for i, val := range row {
		if i < len(dest) {
			assign(dest[i], val)
		}
	}
	return nil
}

func (m *MockRows) Close() error { return nil }
func (m *MockRows) Err() error   { return nil }

// MockRow implements driver.Row for testing
type MockRow struct {
	driver.Row
	Values []interface{}
	Error  error
}

func (m *MockRow) Scan(dest ...interface{}) error {
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

func (m *MockRow) Err() error {
	return m.Error
}

func assign(dest interface{}, val interface{}) {
	// Simple reflection to assign value to pointer
	v := reflect.ValueOf(dest).Elem()
	valV := reflect.ValueOf(val)
	if valV.Type().ConvertibleTo(v.Type()) {
		v.Set(valV.Convert(v.Type()))
	} else {
		v.Set(valV)
	}
}
