// Package mssql implements a Microsoft SQL Server storage.Repository using
// the go-mssqldb bulk copy API.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"casepipe/internal/storage"
)

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository validates the DSN early to fail fast on obvious mistakes,
// then opens and pings the connection.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("mssql: dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return &Repository{db: db, table: table}, nil
}

// CopyFrom bulk-inserts rows using the driver's bulk copy statement.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	stmt, err := txn.PrepareContext(ctx, mssql.CopyIn(r.table, mssql.BulkOptions{}, columns...))
	if err != nil {
		_ = txn.Rollback()
		return 0, fmt.Errorf("mssql: prepare bulk copy: %w", err)
	}

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = stmt.Close()
			_ = txn.Rollback()
			return inserted, fmt.Errorf("mssql: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			_ = txn.Rollback()
			return inserted, fmt.Errorf("mssql: bulk row: %w", err)
		}
		inserted++
	}

	// Final Exec with no args flushes the bulk batch.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = txn.Rollback()
		return inserted, fmt.Errorf("mssql: bulk flush: %w", err)
	}
	if err := stmt.Close(); err != nil {
		_ = txn.Rollback()
		return inserted, fmt.Errorf("mssql: close stmt: %w", err)
	}
	if err := txn.Commit(); err != nil {
		return inserted, fmt.Errorf("mssql: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mssql: exec: %w", err)
	}
	return nil
}

// Close implements storage.Repository.
func (r *Repository) Close() { _ = r.db.Close() }

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
	storage.RegisterDDL("mssql", func(table string, cols []storage.Column) string {
		return renderDDL(table, cols)
	})
}

// renderDDL maps neutral column types onto SQL Server types. SQL Server has
// no IF NOT EXISTS for CREATE TABLE, so the object-id guard form is used.
func renderDDL(table string, cols []storage.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		sqlt := "NVARCHAR(MAX)"
		switch c.Type {
		case storage.TypeInteger:
			sqlt = "BIGINT"
		case storage.TypeReal:
			sqlt = "FLOAT"
		case storage.TypeDate:
			sqlt = "DATE"
		case storage.TypeBool:
			sqlt = "BIT"
		}
		nn := ""
		if c.NotNull {
			nn = " NOT NULL"
		}
		parts[i] = fmt.Sprintf("%s %s%s", c.Name, sqlt, nn)
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		table, table, strings.Join(parts, ", "),
	)
}
