package pipeline

import "errors"

// ErrEmptyAfterFiltering reports that cleaning dropped every row. It is a
// warning, not a failure: the run records it in the summary and skips the
// downstream stages, but other pipelines keep going.
var ErrEmptyAfterFiltering = errors.New("no rows survived cleaning")
