// Package postgres implements a Postgres-backed storage.Repository using
// pgx v5. Bulk loads go through the native COPY protocol.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"casepipe/internal/storage"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository opens a pgx pool for the given DSN.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool, table: table}, nil
}

// CopyFrom streams rows into the configured table via the COPY protocol.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier(strings.Split(r.table, ".")),
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", r.table, err)
	}
	return n, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sqlText); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// Close implements storage.Repository.
func (r *Repository) Close() { r.pool.Close() }

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
	storage.RegisterDDL("postgres", func(table string, cols []storage.Column) string {
		return renderDDL(table, cols)
	})
}

// renderDDL maps neutral column types onto Postgres types.
func renderDDL(table string, cols []storage.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		sqlt := "TEXT"
		switch c.Type {
		case storage.TypeInteger:
			sqlt = "BIGINT"
		case storage.TypeReal:
			sqlt = "DOUBLE PRECISION"
		case storage.TypeDate:
			sqlt = "DATE"
		case storage.TypeBool:
			sqlt = "BOOLEAN"
		}
		nn := ""
		if c.NotNull {
			nn = " NOT NULL"
		}
		parts[i] = fmt.Sprintf("%s %s%s", c.Name, sqlt, nn)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(parts, ", "))
}
