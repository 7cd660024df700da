package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Counter is the part of the submission store the gauge refresh needs.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// UpdateStoredSubmissions sets the stored submission gauge.
func UpdateStoredSubmissions(count int64) {
	StoredSubmissions.Set(float64(count))
}

// RefreshStoredSubmissions reads the count from c and updates the gauge.
// The gauge keeps its previous value when the store cannot be read.
func RefreshStoredSubmissions(ctx context.Context, c Counter) error {
	n, err := c.Count(ctx)
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	UpdateStoredSubmissions(n)
	return nil
}

// QueueLen is the part of the summary queue the depth gauge needs.
type QueueLen interface {
	Len(ctx context.Context) (int64, error)
}

// RefreshQueueDepth reads the queue length from q and updates the gauge.
func RefreshQueueDepth(ctx context.Context, q QueueLen) error {
	n, err := q.Len(ctx)
	if err != nil {
		return fmt.Errorf("queue length: %w", err)
	}
	SummaryQueueDepth.Set(float64(n))
	return nil
}

// SetBuildInfo publishes the running version for component (api, worker).
func SetBuildInfo(version, component string) {
	BuildInfo.WithLabelValues(version, component).Set(1)
}

// RecordDBQuery records the duration of a store operation
// (e.g. "append", "list", "get", "count").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats copies the pool statistics into the gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsInUse.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
	DBConnectionsWaitTotal.Set(float64(stats.WaitCount))
}
