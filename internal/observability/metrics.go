package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	Errors           *prometheus.CounterVec
	TicketsCreated   *prometheus.CounterVec
	MessagesSent     prometheus.Counter
	StatusPromotions prometheus.Counter
	KanbanWrites     *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered, which tests rely on.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total error responses grouped by error code.",
		}, []string{"route", "method", "code"}),
		TicketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_created_total",
			Help:      "Tickets created, by whether the contact already existed.",
		}, []string{"contact"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Outbound messages recorded on tickets.",
		}),
		StatusPromotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_status_promotions_total",
			Help:      "Tickets promoted from WAITING to OPEN by an outbound message.",
		}),
		KanbanWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kanban_config_writes_total",
			Help:      "Kanban config save attempts by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPDuration,
			m.Errors,
			m.TicketsCreated,
			m.MessagesSent,
			m.StatusPromotions,
			m.KanbanWrites,
		)
	}
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(route, method, code).Inc()
}

// RecordTicketCreated counts a new ticket; newContact marks a first-time phone.
func (m *Metrics) RecordTicketCreated(newContact bool) {
	if m == nil {
		return
	}
	label := "existing"
	if newContact {
		label = "new"
	}
	m.TicketsCreated.WithLabelValues(label).Inc()
}

// RecordMessageSent counts an outbound message and, when promoted, the status flip.
func (m *Metrics) RecordMessageSent(promoted bool) {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
	if promoted {
		m.StatusPromotions.Inc()
	}
}

// RecordKanbanWrite counts a kanban save attempt under result.
func (m *Metrics) RecordKanbanWrite(result string) {
	if m == nil {
		return
	}
	m.KanbanWrites.WithLabelValues(result).Inc()
}
