package metrics

import (
	"context"
	"time"
)

// Metrics is a point-in-time view of the pingback store
type Metrics struct {
	// Stored is the number of verified pingbacks held by the sink
	Stored int64 `json:"stored"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the pingback store.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStoredCount returns how many verified pingbacks are stored
	GetStoredCount(ctx context.Context) (int64, error)
}
