package coverauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected credential checks.
	MetricLoginFailure
	// MetricTokenIssued counts signed bearer tokens handed out.
	MetricTokenIssued
	// MetricSessionCreated counts sessions established at login.
	MetricSessionCreated
	// MetricSessionRenewed counts sliding-expiry renewals on admission.
	MetricSessionRenewed
	// MetricSessionDestroyed counts explicit logouts.
	MetricSessionDestroyed
	// MetricGateAdmitted counts requests admitted by the authorization gate.
	MetricGateAdmitted
	// MetricGateUnauthenticated counts requests with no resolvable identity.
	MetricGateUnauthenticated
	// MetricGateForbidden counts resolved identities rejected for rank.
	MetricGateForbidden

	metricCount
)

// Metrics is a fixed set of atomic counters. A nil or disabled Metrics is a
// no-op, so call sites never branch.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc adds one to the counter, ignoring unknown ids.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values. Counters incremented during
// the copy may or may not be included; the snapshot is consistent per
// counter, not across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
