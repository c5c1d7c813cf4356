// Package schema installs the Postgres and ClickHouse tables.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed sql/postgres.sql
var postgresSQL string

//go:embed sql/clickhouse.sql
var clickhouseSQL string

// PgExecer is the subset of a pgx pool needed to run DDL.
type PgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ChExecer is the subset of a ClickHouse connection needed to run DDL.
type ChExecer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// InstallPostgres creates the document tables and indexes if missing.
func InstallPostgres(ctx context.Context, pg PgExecer) error {
	if _, err := pg.Exec(ctx, postgresSQL); err != nil {
		return fmt.Errorf("install postgres schema: %w", err)
	}
	return nil
}

// InstallClickHouse creates the analytics database and tables if missing.
// Statements run one at a time since the driver rejects multi-statement queries.
func InstallClickHouse(ctx context.Context, ch ChExecer) error {
	for _, stmt := range Statements(clickhouseSQL) {
		if err := ch.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("install clickhouse schema: %q: %w", stmt[:min(len(stmt), 50)], err)
		}
	}
	return nil
}

// Statements splits a SQL script on semicolons, dropping empty statements.
func Statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
