package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "washday"

// WizardMetrics counts checkout wizard activity.
type WizardMetrics struct {
	transitions *prometheus.CounterVec
	payments    *prometheus.CounterVec
	gateway     *prometheus.HistogramVec
	sideEffects *prometheus.CounterVec
}

// NewWizardMetrics registers the wizard metrics on reg. A nil registerer
// yields a no-op recorder.
func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	if reg == nil {
		return &WizardMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_transitions_total",
		Help:      "Wizard transitions by operation and outcome.",
	}, []string{"operation", "outcome"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_payments_total",
		Help:      "Payment handoff results by stage (intent, confirm) and outcome.",
	}, []string{"stage", "outcome"})
	gateway := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_gateway_duration_seconds",
		Help:      "Latency of payment gateway calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
	sideEffects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_side_effects_total",
		Help:      "Post-payment side effects (order, account, event, email) by outcome.",
	}, []string{"effect", "outcome"})
	reg.MustRegister(transitions, payments, gateway, sideEffects)
	return &WizardMetrics{
		transitions: transitions,
		payments:    payments,
		gateway:     gateway,
		sideEffects: sideEffects,
	}
}

func (m *WizardMetrics) Transition(operation, outcome string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func (m *WizardMetrics) Payment(stage, outcome string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(stage), normalizeLabel(outcome)).Inc()
}

// ObserveGateway records how long a gateway stage took.
func (m *WizardMetrics) ObserveGateway(stage string, d time.Duration) {
	if m == nil || m.gateway == nil {
		return
	}
	m.gateway.WithLabelValues(normalizeLabel(stage)).Observe(d.Seconds())
}

func (m *WizardMetrics) SideEffect(effect string, err error) {
	if m == nil || m.sideEffects == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sideEffects.WithLabelValues(normalizeLabel(effect), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
