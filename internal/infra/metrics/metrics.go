// Package metrics provides Prometheus metrics for the standby engine:
// bucket transitions, scan duration, parole state, and the size of the
// tracked-package set.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BucketTransitions counts every committed bucket change, labeled by
// the bucket landed on and the reason that produced it.
var BucketTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "standby",
	Name:      "bucket_transitions_total",
	Help:      "Total bucket transitions, by resulting bucket and reason.",
}, []string{"bucket", "reason"})

// ScanDuration tracks how long one CheckIdleStates sweep takes.
var ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "standby",
	Name:      "scan_duration_seconds",
	Help:      "Duration of a single idle-state scan over one user's tracked packages.",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
})

// ScanPackagesSeen tracks how many packages a single scan examined.
var ScanPackagesSeen = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "standby",
	Name:      "scan_packages_seen",
	Help:      "Number of packages examined in a single idle-state scan.",
	Buckets:   []float64{1, 10, 50, 100, 500, 1000},
})

// Paroled tracks whether the device is currently paroled (1) or not (0).
var Paroled = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "standby",
	Name:      "paroled",
	Help:      "Whether idle enforcement is currently suspended (1) or active (0).",
})

// TrackedPackages tracks the size of the history store, per user.
var TrackedPackages = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "standby",
	Name:      "tracked_packages",
	Help:      "Number of (user, package) records currently tracked.",
}, []string{"user"})

// EventsReceived counts incoming events by kind.
var EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "standby",
	Name:      "events_received_total",
	Help:      "Total events reported to the engine, by kind.",
}, []string{"kind"})

// CheckpointWrites counts checkpoint persistence attempts, by outcome.
var CheckpointWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "standby",
	Name:      "checkpoint_writes_total",
	Help:      "Total checkpoint save attempts, by outcome.",
}, []string{"outcome"})
