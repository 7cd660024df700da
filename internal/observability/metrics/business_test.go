package metrics

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) Count(context.Context) (int64, error) { return f.n, f.err }

func TestRefreshStoredSubmissions(t *testing.T) {
	require.NoError(t, RefreshStoredSubmissions(context.Background(), fakeCounter{n: 42}))
	assert.Equal(t, 42.0, testutil.ToFloat64(StoredSubmissions))

	err := RefreshStoredSubmissions(context.Background(), fakeCounter{err: errors.New("store down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count submissions")
	assert.Equal(t, 42.0, testutil.ToFloat64(StoredSubmissions), "gauge keeps its last value")

	UpdateStoredSubmissions(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(StoredSubmissions))
}

type fakeQueue struct {
	n   int64
	err error
}

func (f fakeQueue) Len(context.Context) (int64, error) { return f.n, f.err }

func TestRefreshQueueDepth(t *testing.T) {
	require.NoError(t, RefreshQueueDepth(context.Background(), fakeQueue{n: 5}))
	assert.Equal(t, 5.0, testutil.ToFloat64(SummaryQueueDepth))

	err := RefreshQueueDepth(context.Background(), fakeQueue{err: errors.New("redis down")})
	require.Error(t, err)
	assert.Equal(t, 5.0, testutil.ToFloat64(SummaryQueueDepth))
}

func TestSetBuildInfo(t *testing.T) {
	SetBuildInfo("1.2.3", "api")
	assert.Equal(t, 1.0, testutil.ToFloat64(BuildInfo.WithLabelValues("1.2.3", "api")))
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, o.(prometheus.Metric).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestRecordDBQuery(t *testing.T) {
	before := histogramCount(t, DBQueryDuration.WithLabelValues("append"))
	RecordDBQuery("append", 3*time.Millisecond)
	RecordDBQuery("append", 40*time.Millisecond)
	assert.Equal(t, before+2, histogramCount(t, DBQueryDuration.WithLabelValues("append")))
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(sql.DBStats{InUse: 3, Idle: 2, WaitCount: 7})
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsInUse))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBConnectionsIdle))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBConnectionsWaitTotal))
}
