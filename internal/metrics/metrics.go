package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	transactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comptoir",
			Name:      "transactions_recorded_total",
			Help:      "Recorded transactions by resource kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	reportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comptoir",
			Name:      "reports_generated_total",
			Help:      "Generated reports by kind.",
		},
		[]string{"kind"},
	)

	backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comptoir",
			Name:      "backups_total",
			Help:      "Database backup attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(transactionsRecorded, reportsGenerated, backups)
	})
}

// IncTransaction increments the transaction counter for a resource kind
// and outcome label ("ok", "rejected", "error").
func IncTransaction(kind, outcome string) {
	transactionsRecorded.WithLabelValues(kind, outcome).Inc()
}

// IncReport increments the counter for a generated report kind.
func IncReport(kind string) {
	reportsGenerated.WithLabelValues(kind).Inc()
}

// IncBackup increments the backup counter for an outcome label.
func IncBackup(outcome string) {
	backups.WithLabelValues(outcome).Inc()
}
