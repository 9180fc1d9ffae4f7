// Package metrics defines all custom Prometheus metrics for the booking
// gateway. It is the single source of truth for metric names, labels, and
// help strings; request-level metrics come from the echoprometheus
// middleware and are not duplicated here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// BookingsSubmittedTotal counts wizard submissions.
// Labels:
//   - variant: "staff" or "guest"
//   - outcome: "success", "conflict", or "error"
var BookingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_submitted_total",
		Help:      "Total number of booking submissions, by wizard variant and outcome.",
	},
	[]string{"variant", "outcome"},
)

// BlocksCreatedTotal counts agenda blocks created through the admin surface.
var BlocksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_created_total",
		Help:      "Total number of agenda blocks created.",
	},
)

// SlotQueriesTotal counts availability lookups issued by wizards.
// Label:
//   - variant: "staff" or "guest"
var SlotQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_queries_total",
		Help:      "Total number of availability queries, by wizard variant.",
	},
	[]string{"variant"},
)

// CacheLookupsTotal counts keyed-cache reads.
// Label:
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of keyed-cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
