package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBucketTransitions_Registered(t *testing.T) {
	BucketTransitions.WithLabelValues("working_set", "timeout").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "standby_bucket_transitions_total" {
			found = true
		}
	}
	if !found {
		t.Error("standby_bucket_transitions_total not found in gathered metrics")
	}
}

func TestScanMetrics(t *testing.T) {
	ScanDuration.Observe(0.002)
	ScanPackagesSeen.Observe(42)

	families, _ := prometheus.DefaultGatherer.Gather()
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, name := range []string{"standby_scan_duration_seconds", "standby_scan_packages_seen"} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestParoledGauge(t *testing.T) {
	Paroled.Set(1)

	families, _ := prometheus.DefaultGatherer.Gather()
	for _, f := range families {
		if f.GetName() == "standby_paroled" {
			return
		}
	}
	t.Error("standby_paroled not found")
}

func TestTrackedPackagesGauge(t *testing.T) {
	TrackedPackages.WithLabelValues("0").Set(5)

	families, _ := prometheus.DefaultGatherer.Gather()
	for _, f := range families {
		if f.GetName() == "standby_tracked_packages" {
			return
		}
	}
	t.Error("standby_tracked_packages not found")
}

func TestEventsAndCheckpointCounters(t *testing.T) {
	EventsReceived.WithLabelValues("user_interaction").Inc()
	CheckpointWrites.WithLabelValues("ok").Inc()

	families, _ := prometheus.DefaultGatherer.Gather()
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, name := range []string{"standby_events_received_total", "standby_checkpoint_writes_total"} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	standbyMetrics := 0
	for _, f := range families {
		if len(f.GetName()) > 8 && f.GetName()[:8] == "standby_" {
			standbyMetrics++
		}
	}

	if standbyMetrics < 6 {
		t.Errorf("expected at least 6 standby_ metrics, got %d", standbyMetrics)
	}
}
