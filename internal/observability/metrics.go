package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wrf_swdown"

// Metrics holds the Prometheus counters, histograms, and gauges for a batch run.
type Metrics struct {
	FilesProcessed  prometheus.Counter
	FilesSkipped    *prometheus.CounterVec // labels: reason={missing_coordinates,bad_filename,...}
	RowsProduced    *prometheus.CounterVec // labels: series={hourly,daily}
	LoadErrors      *prometheus.CounterVec // labels: sink
	PipelineRunning prometheus.Gauge

	FileDuration prometheus.Histogram
	RunDuration  prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Model output files that contributed a part to the series.",
		}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Model output files skipped, by reason.",
		}, []string{"reason"}),
		RowsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_produced_total",
			Help:      "Rows emitted per series.",
		}, []string{"series"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failures writing results to a sink.",
		}, []string{"sink"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_processing_duration_seconds",
			Help:      "Duration of reading and reducing a single model output file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-aggregate-load run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FilesProcessed,
		m.FilesSkipped,
		m.RowsProduced,
		m.LoadErrors,
		m.PipelineRunning,
		m.FileDuration,
		m.RunDuration,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
