// Package metrics defines and registers all custom Prometheus metrics for
// the registration system. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventhub"

// ── Issuance metrics ──────────────────────────────────────────────────────────

// TicketsIssuedTotal counts successfully issued tickets.
var TicketsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_issued_total",
		Help:      "Total number of tickets successfully issued.",
	},
)

// IssuanceErrorsTotal counts issuance attempts that were rejected.
// Label:
//   - reason: "event_full", "duplicate", "event_closed", "not_found", "internal"
var IssuanceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issuance_errors_total",
		Help:      "Total number of rejected ticket issuance attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Scan metrics ──────────────────────────────────────────────────────────────

// ScansTotal counts validation attempts by outcome.
// Label:
//   - result: "admitted", "duplicate", "invalid", "unknown", "error"
var ScansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of ticket scan attempts, by result.",
	},
	[]string{"result"},
)

// ScanDuration measures how long a single scan validation takes end-to-end.
var ScanDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of scan validation from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification delivery outcomes.
// Label:
//   - result: "sent", "error", "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of ticket notification deliveries, by result.",
	},
	[]string{"result"},
)

// NotifyQueueDepth tracks the number of notifications waiting per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
