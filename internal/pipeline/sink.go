package pipeline

import (
	"context"
	"fmt"
	"time"

	"casepipe/internal/config"
	"casepipe/internal/metrics"
	"casepipe/internal/storage"
)

// store persists rows to the configured sink, creating the destination table
// first. The repository is opened per run; these are batch jobs, not
// long-lived services, so pooling across runs buys nothing.
func store(ctx context.Context, job string, cfg config.Storage, cols []storage.Column, rows [][]any) (int64, error) {
	start := time.Now()
	n, err := storeRows(ctx, cfg, cols, rows)
	metrics.RecordStep(job, "store", err, time.Since(start))
	metrics.RecordRows(job, "stored", n)
	if err != nil {
		return n, fmt.Errorf("store into %s/%s: %w", cfg.Kind, cfg.DB.Table, err)
	}
	return n, nil
}

func storeRows(ctx context.Context, cfg config.Storage, cols []storage.Column, rows [][]any) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Kind, DSN: cfg.DB.DSN, Table: cfg.DB.Table})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if err := storage.EnsureTable(ctx, repo, cfg.Kind, cfg.DB.Table, cols); err != nil {
		return 0, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return repo.CopyFrom(ctx, names, rows)
}
