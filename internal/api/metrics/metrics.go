// Package metrics defines all custom Prometheus metrics for the property
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "property_api"

// ── Auth metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts bearer-token rejections on protected routes.
// Label:
//   - reason: "missing_header", "malformed_header", "token_invalid", "token_expired"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected bearer authentications, by reason.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests denied by the rate limiter.
// Label:
//   - route: the route name, e.g. "POST /api/search"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429, by route.",
	},
	[]string{"route"},
)

// ── Search metrics ───────────────────────────────────────────────────────────

// SearchCacheTotal counts result-cache lookups.
// Label:
//   - result: "hit" or "miss"
var SearchCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_total",
		Help:      "Total number of search result cache lookups, by result.",
	},
	[]string{"result"},
)

// SearchDuration measures uncached search execution time.
var SearchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of property searches served from the repository.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Indexing metrics ─────────────────────────────────────────────────────────

// IndexedTotal counts listings persisted through the data-load pipeline.
// Label:
//   - status: the listing status as submitted (e.g. "Active")
var IndexedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_indexed_total",
		Help:      "Total number of listings successfully indexed, by status.",
	},
	[]string{"status"},
)

// IndexErrorsTotal counts listings that failed indexing.
// Label:
//   - reason: short failure description (e.g. "missing_listing_id", "upsert_failed")
var IndexErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_index_errors_total",
		Help:      "Total number of listings that failed indexing, by reason.",
	},
	[]string{"reason"},
)

// IndexQueueDepth tracks listings waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IndexQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_queue_depth",
		Help:      "Current number of listings pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
