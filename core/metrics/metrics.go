// Package metrics holds the Prometheus collectors exported by the validator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var ObjectsReconciled = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backup_validator_objects_reconciled_total",
	Help: "Source objects classified by replication state.",
}, []string{"status"})
var RestoreAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backup_validator_restore_attempts_total",
	Help: "Restore verification attempts by outcome.",
}, []string{"status"})
var ListingRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backup_validator_listing_retries_total",
	Help: "Listing page fetches retried after a transient failure.",
}, []string{"bucket"})
var Runs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "backup_validator_runs_total",
	Help: "Validation runs by result.",
}, []string{"result"})
var RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "backup_validator_run_duration_seconds",
	Help:    "Wall time of complete validation runs.",
	Buckets: prometheus.ExponentialBuckets(1, 2, 14),
})

func init() {
	prometheus.MustRegister(ObjectsReconciled)
	prometheus.MustRegister(RestoreAttempts)
	prometheus.MustRegister(ListingRetries)
	prometheus.MustRegister(Runs)
	prometheus.MustRegister(RunDuration)
}
