// Package metrics defines and registers all custom Prometheus metrics for the
// CMS API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto, next to the per-route HTTP metrics that
// echoprometheus exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cms"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests stopped by the authentication or
// authorization gate.
// Label:
//   - reason: "no_token", "invalid_token", "session_expired", "session_not_found",
//     "user_missing", "invalid_session", "auth_required" or "insufficient_role"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth gates, by reason.",
	},
	[]string{"reason"},
)

// SessionsRevokedTotal counts sessions ended by logout.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked through logout.",
	},
)

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeLifecycleTotal counts employee create and delete outcomes.
// Labels:
//   - action: "create" or "delete"
//   - result: "success" or "error"
var EmployeeLifecycleTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_lifecycle_total",
		Help:      "Total number of employee create/delete operations, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadsTotal counts upload outcomes.
// Label:
//   - result: "success", "rejected" or "error"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads, labelled by result.",
	},
	[]string{"result"},
)

// MediaUploadBytes observes the size of stored uploads.
var MediaUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_bytes",
		Help:      "Size in bytes of successfully stored uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6), // 16KiB .. 16MiB
	},
)

// ── Contact metrics ───────────────────────────────────────────────────────────

// ContactSubmissionsTotal counts accepted public contact form submissions.
var ContactSubmissionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_submissions_total",
		Help:      "Total number of contact form submissions accepted.",
	},
)

// Outcome labels err as "success" when nil, "rejected" when rejected reports
// true for it, and "error" otherwise.
func Outcome(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return "success"
	case rejected != nil && rejected(err):
		return "rejected"
	default:
		return "error"
	}
}
