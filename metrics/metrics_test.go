package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"museumwiki/metrics"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	assert.NotNil(t, m.FetchRuns)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.Panics(t, func() { metrics.New(reg) }, "double registration must fail")
}

func TestRecordFetchRun(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.RecordFetchRun("artists", 12)
	m.RecordFetchRun("artists", 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchRuns.WithLabelValues("artists")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.ArtworksFetched))
}

func TestRecordQueryFailure(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.RecordQueryFailure("global")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryFailures.WithLabelValues("global")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QueryFailures.WithLabelValues("artists")))
}

func TestRecordSnapshotLoad(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.RecordSnapshotLoad(45, nil)
	assert.Equal(t, 45.0, testutil.ToFloat64(m.SnapshotRecords))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SnapshotLoadErrors))

	m.RecordSnapshotLoad(0, errors.New("missing"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SnapshotRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotLoadErrors))
}
