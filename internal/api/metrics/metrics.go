// Package metrics defines and registers the custom Prometheus metrics of the
// members-only board. HTTP request metrics come from the echo-contrib
// middleware; the counters here track domain outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clubhouse"

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "invalid", "duplicate" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RoleGrantsTotal counts passcode submissions.
// Labels:
//   - role: "member" or "admin"
//   - result: "granted", "rejected" or "error"
var RoleGrantsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_grants_total",
		Help:      "Total number of passcode submissions, by role and result.",
	},
	[]string{"role", "result"},
)

// ── Message metrics ───────────────────────────────────────────────────────────

// MessageOpsTotal counts message mutations.
// Labels:
//   - op: "create", "update" or "delete"
//   - result: "ok", "forbidden", "not_found", "invalid" or "error"
var MessageOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "message_ops_total",
		Help:      "Total number of message mutations, by operation and result.",
	},
	[]string{"op", "result"},
)
