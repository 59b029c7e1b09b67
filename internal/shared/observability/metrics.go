package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staticlint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staticlint_files_analyzed_total",
		Help: "Total number of source files parsed and checked.",
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staticlint_parse_failures_total",
		Help: "Total number of files that could not be parsed.",
	})

	CallsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staticlint_calls_total",
		Help: "Method invocations seen by the binder, by outcome.",
	}, []string{"outcome"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staticlint_findings_total",
		Help: "Findings reported, by rule set and rule.",
	}, []string{"rule_set", "rule"})

	IndexedTypes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "staticlint_indexed_types",
		Help: "Number of type declarations in the symbol index of the last run.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staticlint_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staticlint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRunsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staticlint_watch_runs_throttled_total",
		Help: "Watch-mode re-runs delayed by the run limiter.",
	})

	HistoryWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staticlint_history_write_errors_total",
		Help: "Runs that could not be persisted to the history store.",
	})
)
