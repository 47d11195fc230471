// Package file implements a local-filesystem datasource, used for pinned
// dataset snapshots and in tests.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Source opens a local file as a dataset snapshot.
type Source struct {
	Path string
}

// Open opens the file. The context is accepted for interface parity; local
// opens are not cancelable mid-call.
func (s Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}
