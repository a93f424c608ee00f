package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

// Ensure Prometheus implements the interface.
var _ driven.Metrics = (*Prometheus)(nil)

// Namespace prefixes every metric name.
const Namespace = "patchsync"

// Download outcome label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Prometheus records run metrics in a private registry.
//
// Metrics:
//   - patchsync_listing_pages_total
//   - patchsync_items_listed_total
//   - patchsync_items_resolved_total
//   - patchsync_items_skipped_total{reason}
//   - patchsync_downloads_total{status}
//   - patchsync_download_attempts_total
//   - patchsync_download_bytes_total
//   - patchsync_download_duration_seconds
type Prometheus struct {
	registry *prometheus.Registry
	textfile string

	pages            prometheus.Counter
	itemsListed      prometheus.Counter
	itemsResolved    prometheus.Counter
	itemsSkipped     *prometheus.CounterVec
	downloads        *prometheus.CounterVec
	downloadAttempts prometheus.Counter
	downloadBytes    prometheus.Counter
	downloadDuration prometheus.Histogram
}

// NewPrometheus creates a recorder. If textfile is non-empty, Flush writes
// the registry to that path.
func NewPrometheus(textfile string) *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
	}

	m.pages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "listing_pages_total",
		Help:      "Listing pages fetched.",
	})
	m.itemsListed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "items_listed_total",
		Help:      "Catalog items returned by the listing.",
	})
	m.itemsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "items_resolved_total",
		Help:      "Items whose detail lookup succeeded.",
	})
	m.itemsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "items_skipped_total",
		Help:      "Items skipped, by reason.",
	}, []string{"reason"})
	m.downloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "downloads_total",
		Help:      "File downloads, by outcome.",
	}, []string{"status"})
	m.downloadAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "download_attempts_total",
		Help:      "HTTP requests made for file downloads, retries included.",
	})
	m.downloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "download_bytes_total",
		Help:      "Bytes written by successful downloads.",
	})
	m.downloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "download_duration_seconds",
		Help:      "Wall time per file across all attempts.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	m.registry.MustRegister(
		m.pages,
		m.itemsListed,
		m.itemsResolved,
		m.itemsSkipped,
		m.downloads,
		m.downloadAttempts,
		m.downloadBytes,
		m.downloadDuration,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

// ListingFetched records a completed or partial listing walk.
func (m *Prometheus) ListingFetched(pages, items int) {
	m.pages.Add(float64(pages))
	m.itemsListed.Add(float64(items))
}

// ItemSkipped records an item dropped from the run.
func (m *Prometheus) ItemSkipped(reason string) {
	m.itemsSkipped.WithLabelValues(reason).Inc()
}

// ItemResolved records a successful detail lookup.
func (m *Prometheus) ItemResolved() {
	m.itemsResolved.Inc()
}

// FileDownloaded records one file transfer.
func (m *Prometheus) FileDownloaded(ok bool, attempts int, bytes int64, elapsed time.Duration) {
	status := StatusFailed
	if ok {
		status = StatusSuccess
		m.downloadBytes.Add(float64(bytes))
	}
	m.downloads.WithLabelValues(status).Inc()
	m.downloadAttempts.Add(float64(attempts))
	m.downloadDuration.Observe(elapsed.Seconds())
}

// Flush writes the registry to the textfile, if one is configured.
func (m *Prometheus) Flush() error {
	if m.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
