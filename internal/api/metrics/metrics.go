// Package metrics defines all custom Prometheus metrics for the PingLayer
// API. It is the single source of truth for metric names, labels, and help
// strings. HTTP-level request metrics come from the echoprometheus
// middleware; everything here is domain-level.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pinglayer"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "invalid_credentials", "token_invalid", "token_expired",
//     "user_missing", "user_inactive", "admin_required"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// TokensIssuedTotal counts access tokens minted at login and registration.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens minted.",
	},
)

// ── Campaign metrics ──────────────────────────────────────────────────────────

var CampaignsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_created_total",
		Help:      "Total number of campaigns created.",
	},
)

var CampaignsSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_sent_total",
		Help:      "Total number of campaigns handed to the delivery pipeline.",
	},
)

// ── Click metrics ─────────────────────────────────────────────────────────────

// ClicksRecordedTotal counts processed smart-link clicks.
// Label:
//   - result: "unique" (first click from this visitor) or "repeat"
var ClicksRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clicks_recorded_total",
		Help:      "Total number of smart link clicks recorded, by uniqueness.",
	},
	[]string{"result"},
)

// ClickErrorsTotal counts clicks that failed processing.
// Label:
//   - reason: "link_not_found", "insert_failed", "counter_failed"
var ClickErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "click_errors_total",
		Help:      "Total number of smart link clicks that failed processing.",
	},
	[]string{"reason"},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

var RateLimitRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejected_total",
		Help:      "Total number of requests rejected by the sliding-window rate limiter.",
	},
)
