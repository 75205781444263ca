// Copyright 2026 Pangea Cyber Corporation
//
// Package metrics exposes Prometheus counters for the audit client. All
// methods are nil-safe so instrumentation stays optional.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the counter bundle for one client.
type Metrics struct {
	eventsVerified      prometheus.Counter
	membershipFailures  prometheus.Counter
	consistencyFailures prometheus.Counter
	unverifiableEvents  prometheus.Counter
	rootCacheHits       prometheus.Counter
	rootCacheMisses     prometheus.Counter
	publishedRootsFound prometheus.Counter
	serverRootFallbacks prometheus.Counter
}

// New registers the counter bundle with reg. A nil registerer uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pangea",
			Subsystem: "audit",
			Name:      name,
			Help:      help,
		})
	}

	return &Metrics{
		eventsVerified:      counter("events_verified_total", "Events whose membership proof verified."),
		membershipFailures:  counter("membership_failures_total", "Membership proofs that failed verification."),
		consistencyFailures: counter("consistency_failures_total", "Consistency proofs that failed verification."),
		unverifiableEvents:  counter("unverifiable_events_total", "Events with no resolvable published root."),
		rootCacheHits:       counter("root_cache_hits_total", "Published-root cache hits."),
		rootCacheMisses:     counter("root_cache_misses_total", "Published-root cache misses."),
		publishedRootsFound: counter("published_roots_found_total", "Roots resolved from the publication network."),
		serverRootFallbacks: counter("server_root_fallbacks_total", "Roots resolved from the audit server."),
	}
}

func (m *Metrics) RecordEventVerified() {
	if m != nil {
		m.eventsVerified.Inc()
	}
}

func (m *Metrics) RecordMembershipFailure() {
	if m != nil {
		m.membershipFailures.Inc()
	}
}

func (m *Metrics) RecordConsistencyFailure() {
	if m != nil {
		m.consistencyFailures.Inc()
	}
}

func (m *Metrics) RecordUnverifiableEvent() {
	if m != nil {
		m.unverifiableEvents.Inc()
	}
}

func (m *Metrics) RecordRootCacheHit() {
	if m != nil {
		m.rootCacheHits.Inc()
	}
}

func (m *Metrics) RecordRootCacheMiss() {
	if m != nil {
		m.rootCacheMisses.Inc()
	}
}

func (m *Metrics) RecordPublishedRootFound() {
	if m != nil {
		m.publishedRootsFound.Inc()
	}
}

func (m *Metrics) RecordServerRootFallback() {
	if m != nil {
		m.serverRootFallbacks.Inc()
	}
}
