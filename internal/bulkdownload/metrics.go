package bulkdownload

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"s3zipper/internal/models"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	// requestsTotal counts handled requests by HTTP status code.
	requestsTotal *prometheus.CounterVec

	// requestDuration tracks end-to-end handler latency.
	requestDuration prometheus.Histogram

	// archivedBytesTotal counts uncompressed source bytes written into archives.
	archivedBytesTotal prometheus.Counter

	// archiveEntriesTotal counts entries written into archives.
	archiveEntriesTotal prometheus.Counter

	// sourceFailuresTotal counts source keys that could not be opened.
	sourceFailuresTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "s3zipper",
				Subsystem: "bulk_download",
				Name:      "requests_total",
				Help:      "Total number of bulk download requests by response status code",
			},
			[]string{"code"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "s3zipper",
				Subsystem: "bulk_download",
				Name:      "duration_seconds",
				Help:      "Duration of bulk download requests in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 900},
			},
		),
		archivedBytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "s3zipper",
				Subsystem: "bulk_download",
				Name:      "archived_bytes_total",
				Help:      "Total number of uncompressed source bytes written into archives",
			},
		),
		archiveEntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "s3zipper",
				Subsystem: "bulk_download",
				Name:      "archive_entries_total",
				Help:      "Total number of entries written into archives",
			},
		),
		sourceFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "s3zipper",
				Subsystem: "bulk_download",
				Name:      "source_failures_total",
				Help:      "Total number of source objects that could not be opened",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.requestsTotal,
			m.requestDuration,
			m.archivedBytesTotal,
			m.archiveEntriesTotal,
			m.sourceFailuresTotal,
		)
	}

	return m
}

func (m *Metrics) observeRequest(statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	m.requestDuration.Observe(duration.Seconds())
}

func (m *Metrics) observeArchive(stats models.ArchiveStats) {
	if m == nil {
		return
	}
	m.archivedBytesTotal.Add(float64(stats.OriginalSize))
	m.archiveEntriesTotal.Add(float64(stats.EntryCount))
}

func (m *Metrics) observeSourceFailures(count int) {
	if m == nil {
		return
	}
	m.sourceFailuresTotal.Add(float64(count))
}
