package coverauth

import (
	"sync"
	"testing"
)

func TestMetricsInc(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricGateForbidden)
	m.Inc(MetricID(9999)) // unknown id, ignored

	snap := m.Snapshot()
	if got := snap.Counters[MetricLoginSuccess]; got != 2 {
		t.Errorf("login success = %d, want 2", got)
	}
	if got := snap.Counters[MetricGateForbidden]; got != 1 {
		t.Errorf("gate forbidden = %d, want 1", got)
	}
	if got := snap.Counters[MetricTokenIssued]; got != 0 {
		t.Errorf("untouched counter = %d, want 0", got)
	}
	if len(snap.Counters) != int(metricCount) {
		t.Errorf("snapshot has %d counters, want %d", len(snap.Counters), metricCount)
	}
}

func TestMetricsDisabledIsNil(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: false})
	if m != nil {
		t.Fatal("disabled config produced metrics")
	}

	m.Inc(MetricLoginSuccess)
	snap := m.Snapshot()
	if snap.Counters == nil {
		t.Fatal("nil Snapshot returned nil map")
	}
	for id, n := range snap.Counters {
		if n != 0 {
			t.Errorf("counter %d = %d on nil metrics", id, n)
		}
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	const (
		goroutines = 8
		perRoutine = 1000
	)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perRoutine; j++ {
				m.Inc(MetricGateAdmitted)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().Counters[MetricGateAdmitted]; got != goroutines*perRoutine {
		t.Errorf("gate admitted = %d, want %d", got, goroutines*perRoutine)
	}
}
