package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the climate pipeline.
type Metrics struct {
	FilesDiscovered    prometheus.Counter
	FilesRejected      *prometheus.CounterVec // labels: reason={unreadable,missing_columns}
	DirectoriesSkipped prometheus.Counter
	RecordsLoaded      prometheus.Counter
	CellsMissing       prometheus.Counter
	Observations       prometheus.Counter

	// Report output metrics.
	ReportsWritten     *prometheus.CounterVec // labels: report, sink
	ReportWriteErrors  *prometheus.CounterVec // labels: report, sink
	ExportErrors       *prometheus.CounterVec // labels: exporter
	FileCache          *prometheus.CounterVec // labels: result={hit,miss}
	RunDuration        prometheus.Histogram
	RunsTotal          *prometheus.CounterVec // labels: outcome={success,no_files,no_records,error}
	PipelineRunning    prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesDiscovered,
		m.FilesRejected,
		m.DirectoriesSkipped,
		m.RecordsLoaded,
		m.CellsMissing,
		m.Observations,
		m.ReportsWritten,
		m.ReportWriteErrors,
		m.ExportErrors,
		m.FileCache,
		m.RunDuration,
		m.RunsTotal,
		m.PipelineRunning,
		m.LastSuccessSeconds,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_discovered_total",
			Help:      "CSV files found under the data directory.",
		}),
		FilesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_rejected_total",
			Help:      "CSV files that contributed no records, by reason.",
		}, []string{"reason"}),
		DirectoriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "directories_skipped_total",
			Help:      "Directories that could not be listed during discovery.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "records_loaded_total",
			Help:      "Station records accepted from CSV files.",
		}),
		CellsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "cells_missing_total",
			Help:      "Month cells that did not clean to a number.",
		}),
		Observations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "observations_total",
			Help:      "Long-format observations fed to the aggregator.",
		}),
		ReportsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "reports_written_total",
			Help:      "Reports persisted, by report and sink.",
		}, []string{"report", "sink"}),
		ReportWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "report_write_errors_total",
			Help:      "Report write failures, by report and sink.",
		}, []string{"report", "sink"}),
		ExportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "export_errors_total",
			Help:      "Workbook and chart export failures, by exporter.",
		}, []string{"exporter"}),
		FileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "file_cache_total",
			Help:      "Parsed-file cache lookups by result.",
		}, []string{"result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete discover-load-aggregate-report run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that wrote reports.",
		}),
	}
}
