package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead intake pipeline.
type LeadMetrics struct {
	receivedTotal  prometheus.Counter
	acceptedTotal  prometheus.Counter
	rejectedTotal  *prometheus.CounterVec
	rateLimited    prometheus.Counter
	emailsSent     *prometheus.CounterVec
	emailFailures  prometheus.Counter
	webhookForward *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		receivedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "leads",
			Name:      "received_total",
			Help:      "Total lead submissions that reached the intake handler",
		}),
		acceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "leads",
			Name:      "accepted_total",
			Help:      "Total lead submissions that passed validation and delivery",
		}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "leads",
			Name:      "rejected_total",
			Help:      "Total rejected lead submissions",
		}, []string{"reason"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "leads",
			Name:      "rate_limited_total",
			Help:      "Total submissions rejected by the fixed-window rate limiter",
		}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "notify",
			Name:      "emails_sent_total",
			Help:      "Total notification emails delivered",
		}, []string{"kind"}),
		emailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "notify",
			Name:      "email_failures_total",
			Help:      "Total notification emails that failed to deliver",
		}),
		webhookForward: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fencequote",
			Subsystem: "leads",
			Name:      "webhook_forward_total",
			Help:      "Total tenant webhook forwards",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.receivedTotal, m.acceptedTotal, m.rejectedTotal, m.rateLimited, m.emailsSent, m.emailFailures, m.webhookForward)
	return m
}

func (m *LeadMetrics) ObserveReceived() {
	if m == nil {
		return
	}
	m.receivedTotal.Inc()
}

func (m *LeadMetrics) ObserveAccepted() {
	if m == nil {
		return
	}
	m.acceptedTotal.Inc()
}

func (m *LeadMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *LeadMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *LeadMetrics) ObserveEmailSent(kind string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(kind).Inc()
}

func (m *LeadMetrics) ObserveEmailFailure() {
	if m == nil {
		return
	}
	m.emailFailures.Inc()
}

func (m *LeadMetrics) ObserveWebhookForward(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.webhookForward.WithLabelValues(status).Inc()
}
