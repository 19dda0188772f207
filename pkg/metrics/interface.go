package metrics

import "context"

// Collector is the interface for metrics collection.
// Implementations are the Prometheus-backed collector used by the server and
// the no-op collector used in tests.
type Collector interface {
	RecordOperation(ctx context.Context, operation string, status string, durationMs int64)
	RecordError(ctx context.Context, operation string, errorType string)
	SetStorageCount(ctx context.Context, storageType string, count int64)
}
