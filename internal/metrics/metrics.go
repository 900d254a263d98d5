// Package metrics records Prometheus metrics for mirror sync runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docsync"

// Sync outcomes.
const (
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// File results.
const (
	FileDownloaded   = "downloaded"
	FileFailed       = "failed"
	FileDeleted      = "deleted"
	FileDeleteFailed = "delete_failed"
)

// Directory results.
const (
	DirectorySkipped    = "skipped"
	DirectoryReconciled = "reconciled"
	DirectoryFailed     = "failed"
)

// Recorder owns a dedicated registry so several mirrors, or tests, never
// collide on the default one.
type Recorder struct {
	registry *prometheus.Registry

	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	files        *prometheus.CounterVec
	directories  *prometheus.CounterVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		syncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_runs_total",
				Help:      "Total number of mirror sync runs by outcome",
			},
			[]string{"outcome"},
		),
		syncDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_duration_seconds",
				Help:      "Mirror sync duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Mirrored files by directory and result",
			},
			[]string{"directory", "result"},
		),
		directories: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directories_total",
				Help:      "Watched directories by result",
			},
			[]string{"directory", "result"},
		),
	}
}

// ObserveSync records one finished sync run.
func (r *Recorder) ObserveSync(outcome string, duration time.Duration) {
	r.syncRuns.WithLabelValues(outcome).Inc()
	r.syncDuration.Observe(duration.Seconds())
}

// ObserveFile records the result of one file transfer or deletion.
func (r *Recorder) ObserveFile(directory, result string) {
	r.files.WithLabelValues(directory, result).Inc()
}

// ObserveDirectory records whether a watched directory was skipped or
// reconciled.
func (r *Recorder) ObserveDirectory(directory, result string) {
	r.directories.WithLabelValues(directory, result).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current metrics to path, for node_exporter's
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
