// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics provides Prometheus instrumentation for reklawdbox-go's
// cache store, provider clients, sequencing engine and audit scanner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache-store lookups by table and outcome (hit/miss).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cachestore_lookups_total",
			Help: "Total cache-store lookups by table and outcome",
		},
		[]string{"table", "outcome"},
	)

	// CacheUpserts counts cache-store writes by table.
	CacheUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cachestore_upserts_total",
			Help: "Total cache-store upserts by table",
		},
		[]string{"table"},
	)

	// ProviderCalls counts outbound provider HTTP calls by provider and outcome.
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total external provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderCallDuration observes provider call latency.
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Duration of external provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// BrokerAuthState tracks the auth orchestrator's current state machine
	// position (0=NoSession, 1=PendingAuth, 2=Active).
	BrokerAuthState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broker_auth_state",
			Help: "Current broker auth state (0=no_session, 1=pending, 2=active)",
		},
	)

	// SequencingSearchDuration observes how long building a candidate plan took.
	SequencingSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sequencing_search_duration_seconds",
			Help:    "Duration of sequencing plan construction in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"}, // "greedy" or "beam"
	)

	// AuditScanFiles counts files processed by the audit scanner by outcome.
	AuditScanFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_scan_files_total",
			Help: "Total files processed by an audit scan by outcome",
		},
		[]string{"outcome"}, // "scanned", "skipped_unchanged", "missing"
	)

	// AuditIssuesDetected counts detected issues by check type.
	AuditIssuesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_issues_detected_total",
			Help: "Total audit issues detected by check type",
		},
		[]string{"issue_type"},
	)

	// ExtractorInvocations counts feature-extractor subprocess runs by outcome.
	ExtractorInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_invocations_total",
			Help: "Total feature-extractor subprocess invocations by outcome",
		},
		[]string{"outcome"}, // "ok", "timeout", "nonzero_exit", "bad_json"
	)

	// CircuitBreakerState tracks each provider breaker's state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests counts requests passed through a circuit breaker by result.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// CircuitBreakerConsecutiveFailures tracks the current consecutive-failure streak.
	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts circuit breaker state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)
