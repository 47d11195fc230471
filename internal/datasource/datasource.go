// Package datasource abstracts where dataset bytes come from. The pipeline
// reads one full snapshot per run; sources only need to hand back a stream.
package datasource

import (
	"context"
	"io"
)

// Source opens one immutable snapshot of a dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
