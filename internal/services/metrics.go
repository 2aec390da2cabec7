package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics exposed on /metrics.
var (
	filesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investviz_files_processed_total",
		Help: "Number of input files successfully normalized.",
	})
	filesFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investviz_files_failed_total",
		Help: "Number of input files that failed to read or normalize.",
	})
	recordsNormalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investviz_records_normalized_total",
		Help: "Number of tidy records emitted across all runs.",
	})
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "investviz_runs_total",
		Help: "Number of pipeline runs executed.",
	})
)
