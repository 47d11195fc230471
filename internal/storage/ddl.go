package storage

import (
	"context"
	"fmt"
	"sync"
)

// Column describes one destination column for DDL generation.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// ColumnType is the backend-neutral column type; each backend maps it onto
// its own dialect.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeInteger ColumnType = "integer"
	TypeReal    ColumnType = "real"
	TypeDate    ColumnType = "date"
	TypeBool    ColumnType = "bool"
)

// DDLFunc renders a CREATE TABLE IF NOT EXISTS statement for the backend's
// dialect.
type DDLFunc func(table string, cols []Column) string

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLFunc{}
)

// RegisterDDL registers the DDL renderer for a backend kind. Called from
// backend init() functions.
func RegisterDDL(kind string, fn DDLFunc) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable renders and executes the CREATE TABLE statement for the given
// kind. Callers pass the already-open Repository and never see dialects.
func EnsureTable(ctx context.Context, repo Repository, kind, table string, cols []Column) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL renderer registered for kind %q", kind)
	}
	return repo.Exec(ctx, fn(table, cols))
}
