package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bündelt alle Prometheus-Metriken von Fetcher und Galerie.
type Metrics struct {
	FetchRuns          *prometheus.CounterVec
	ArtworksFetched    prometheus.Counter
	QueryFailures      *prometheus.CounterVec
	SnapshotsWritten   prometheus.Counter
	SnapshotLoadErrors prometheus.Counter
	SnapshotRecords    prometheus.Gauge
	HTTPRequestsTotal  *prometheus.CounterVec
}

// New registriert alle Metriken am übergebenen Registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "museumwiki_fetch_runs_total",
			Help: "Number of fetch runs by mode.",
		}, []string{"mode"}),
		ArtworksFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "museumwiki_artworks_fetched_total",
			Help: "Total number of artworks returned by the SPARQL endpoint.",
		}),
		QueryFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "museumwiki_query_failures_total",
			Help: "Failed SPARQL queries by mode.",
		}, []string{"mode"}),
		SnapshotsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "museumwiki_snapshots_written_total",
			Help: "Snapshots persisted to disk.",
		}),
		SnapshotLoadErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "museumwiki_snapshot_load_errors_total",
			Help: "Failed attempts to read the latest snapshot.",
		}),
		SnapshotRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "museumwiki_snapshot_records",
			Help: "Number of records in the last loaded snapshot.",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "museumwiki_http_requests_total",
			Help: "HTTP requests served by route and status.",
		}, []string{"route", "status"}),
	}
}

// RecordQueryFailure zählt eine fehlgeschlagene Abfrage.
func (m *Metrics) RecordQueryFailure(mode string) {
	m.QueryFailures.WithLabelValues(mode).Inc()
}

// RecordFetchRun zählt einen abgeschlossenen Fetch-Lauf und dessen Treffer.
func (m *Metrics) RecordFetchRun(mode string, fetched int) {
	m.FetchRuns.WithLabelValues(mode).Inc()
	m.ArtworksFetched.Add(float64(fetched))
}

// RecordSnapshotLoad hält das Ergebnis eines Snapshot-Ladevorgangs fest.
func (m *Metrics) RecordSnapshotLoad(records int, err error) {
	if err != nil {
		m.SnapshotLoadErrors.Inc()
	}
	m.SnapshotRecords.Set(float64(records))
}
