// Package metrics defines and registers the custom Prometheus metrics of the
// task manager API. Collectors are registered with the default registry on
// import, so the /metrics handler exposes them without further setup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts accounts that passed validation and were stored.
var AccountsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created.",
	},
)

// AccountsDeletedTotal counts accounts removed after their tasks were deleted.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of accounts deleted.",
	},
)

// CascadeDeletedTasksTotal counts tasks removed because their owner was deleted.
var CascadeDeletedTasksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_tasks_total",
		Help:      "Total number of tasks deleted together with their owning account.",
	},
)

// ValidationFailuresTotal counts rejected account writes.
// Label:
//   - kind: the violated rule (e.g. "invalid_email", "weak_password")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of rule violations that rejected an account write.",
	},
	[]string{"kind"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthTokensIssuedTotal counts session tokens appended to accounts.
var AuthTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// PasswordHashDuration measures how long one bcrypt hash takes.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing during account saves.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)
