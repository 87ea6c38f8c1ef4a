// Package metrics defines the Prometheus collectors of the notification
// pipeline. Collectors are grouped in one struct and registered on the
// registerer passed to New; a nil registerer leaves them unregistered, which
// is what tests and components without an explicit Metrics use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskmaster"

// Metrics holds every collector of the bus, router and dispatcher.
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	EventsCancelled *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec

	NotificationsStored *prometheus.CounterVec
	PushesEmitted       *prometheus.CounterVec
	RouterFailures      *prometheus.CounterVec

	EmailsSent       *prometheus.CounterVec
	EmailsQueued     *prometheus.CounterVec
	EmailsDropped    *prometheus.CounterVec
	EmailFailures    *prometheus.CounterVec
	DigestsSent      prometheus.Counter
	DigestFailures   prometheus.Counter
	DigestQueueDepth prometheus.Gauge
}

// New creates the collectors and registers them on reg when reg is not nil.
// It panics if registration fails, like promauto does.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "eventbus", Name: "events_published_total",
			Help: "Events that passed middleware and were fanned out, by event type.",
		}, []string{"type"}),
		EventsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "eventbus", Name: "events_cancelled_total",
			Help: "Events cancelled by a middleware before fan-out, by event type.",
		}, []string{"type"}),
		HandlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "eventbus", Name: "handler_failures_total",
			Help: "Subscriber invocations that returned an error or panicked, by event type.",
		}, []string{"type"}),

		NotificationsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "router", Name: "notifications_stored_total",
			Help: "Notification records persisted, by event type.",
		}, []string{"type"}),
		PushesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "router", Name: "pushes_emitted_total",
			Help: "Live-push emissions, by event type and whether a live connection took them.",
		}, []string{"type", "delivered"}),
		RouterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "router", Name: "failures_total",
			Help: "Persistence or push failures swallowed by the router, by stage.",
		}, []string{"stage"}),

		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "emails_sent_total",
			Help: "Immediate emails handed to the transport, by event type.",
		}, []string{"type"}),
		EmailsQueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "emails_queued_total",
			Help: "Notifications deferred to the digest queue because of cooldown, by event type.",
		}, []string{"type"}),
		EmailsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "emails_dropped_total",
			Help: "Notifications not emailed, by reason.",
		}, []string{"reason"}),
		EmailFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "email_failures_total",
			Help: "Transport failures for immediate emails, by event type.",
		}, []string{"type"}),
		DigestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "digests_sent_total",
			Help: "Digest emails sent.",
		}),
		DigestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "digest_failures_total",
			Help: "Digest sends that failed and were kept for the next flush.",
		}),
		DigestQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "dispatcher", Name: "digest_queue_depth",
			Help: "Queued digest items across all users after the last change.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.EventsPublished, m.EventsCancelled, m.HandlerFailures,
			m.NotificationsStored, m.PushesEmitted, m.RouterFailures,
			m.EmailsSent, m.EmailsQueued, m.EmailsDropped, m.EmailFailures,
			m.DigestsSent, m.DigestFailures, m.DigestQueueDepth,
		)
	}

	return m
}

// OrNop returns m, or a fresh unregistered set when m is nil.
func OrNop(m *Metrics) *Metrics {
	if m == nil {
		return New(nil)
	}
	return m
}
