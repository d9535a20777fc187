// Package metrics defines and registers all custom Prometheus metrics for the
// community platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics registered via promauto attach to the default registry at package
// init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "community"

// ── Content metrics ───────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
// Label:
//   - scope: "community" or "profile"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by scope.",
	},
	[]string{"scope"},
)

// VotesCastTotal counts vote transitions applied to posts.
// Labels:
//   - direction: "up" or "down"
//   - action: "added" (vote recorded) or "removed" (toggle-off)
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of vote transitions, by direction and action.",
	},
	[]string{"direction", "action"},
)

// FeedRequestsTotal counts feed reads.
// Label:
//   - view: "home", "popular", "community", "trending", or "search"
var FeedRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Total number of feed requests, by view.",
	},
	[]string{"view"},
)

// CommunitiesCreatedTotal counts newly created communities.
var CommunitiesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "communities_created_total",
		Help:      "Total number of communities created.",
	},
)

// MembershipChangesTotal counts membership state transitions.
// Label:
//   - action: "join" or "leave"
var MembershipChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_changes_total",
		Help:      "Total number of community membership transitions.",
	},
	[]string{"action"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// MessagesDeliveredTotal counts messages that completed delivery processing.
var MessagesDeliveredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_delivered_total",
		Help:      "Total number of chat messages processed by the delivery workers.",
	},
)

// DeliveryQueueDepth tracks the current number of deliveries waiting in each
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of deliveries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
