// Package storage contains the storage-agnostic contracts used to persist
// cleaned records, long-format observations, and aggregated buckets.
// Concrete backends register themselves with the factory at init time; the
// rest of the program depends only on this package.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal sink interface the pipeline writes through.
type Repository interface {
	// CopyFrom inserts rows (aligned to columns order) using the backend's
	// most efficient bulk primitive and returns the number inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind  string // registered backend kind: "sqlite", "postgres", "mssql"
	DSN   string
	Table string
}

// Factory builds a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Unregistered kinds return an error
// listing what is available.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
