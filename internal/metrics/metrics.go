package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notesapp"

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	AuthResults     *prometheus.CounterVec
	QuotaDenials    *prometheus.CounterVec
	NotesCreated    *prometheus.CounterVec
	TenantUpgrades  prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ArchiveRuns     *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuthResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "results_total",
			Help:      "Request authentication outcomes.",
		}, []string{"result"}), // result: authenticated, anonymous, invalid, expired, unresolved, login_ok, login_failed
		QuotaDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "denials_total",
			Help:      "Note creations refused because the plan limit was reached.",
		}, []string{"role"}),
		NotesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notes",
			Name:      "created_total",
			Help:      "Notes created by tenant plan.",
		}, []string{"plan"}),
		TenantUpgrades: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenants",
			Name:      "upgrades_total",
			Help:      "Tenants moved from FREE to PRO.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ArchiveRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "runs_total",
			Help:      "Note archive runs by outcome.",
		}, []string{"status"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events by type and outcome.",
		}, []string{"type", "status"}),
	}
}
