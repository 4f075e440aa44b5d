package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// LabelOther replaces label values outside a metric's fixed set.
const LabelOther = "other"

// builtinIntents are the service's predefined intents. A bot that routes one
// of these to the hook by mistake shows up by name; anything else is "other".
var builtinIntents = map[string]struct{}{
	"AMAZON.FallbackIntent":     {},
	"AMAZON.CancelIntent":       {},
	"AMAZON.HelpIntent":         {},
	"AMAZON.StopIntent":         {},
	"AMAZON.RepeatIntent":       {},
	"AMAZON.StartOverIntent":    {},
	"AMAZON.KendraSearchIntent": {},
	"AMAZON.QnAIntent":          {},
}

// DialogMetrics exposes counters/histograms for code hook turns.
type DialogMetrics struct {
	turnsTotal         *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	unsupportedTotal   *prometheus.CounterVec
	bookingsTotal      *prometheus.CounterVec
	turnLatency        *prometheus.HistogramVec

	appointmentTypes map[string]struct{}
}

// Option configures DialogMetrics.
type Option func(*DialogMetrics)

// WithAppointmentTypes sets the appointment types that keep their own
// bookings_total label; every other value is counted as "other".
func WithAppointmentTypes(types ...string) Option {
	return func(m *DialogMetrics) {
		for _, t := range types {
			m.appointmentTypes[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
	}
}

func NewDialogMetrics(reg prometheus.Registerer, opts ...Option) *DialogMetrics {
	m := &DialogMetrics{
		appointmentTypes: make(map[string]struct{}),
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexhooks",
			Subsystem: "dialog",
			Name:      "turns_total",
			Help:      "Total code hook turns by intent, invocation source and dialog action",
		}, []string{"intent", "source", "action"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexhooks",
			Subsystem: "dialog",
			Name:      "validation_failures_total",
			Help:      "Slots re-elicited because they failed validation",
		}, []string{"intent", "slot"}),
		unsupportedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexhooks",
			Subsystem: "dialog",
			Name:      "unsupported_intent_total",
			Help:      "Turns rejected because no handler serves the intent",
		}, []string{"intent"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexhooks",
			Subsystem: "appointment",
			Name:      "bookings_total",
			Help:      "Appointment fulfillments by type and outcome",
		}, []string{"appointment_type", "outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lexhooks",
			Subsystem: "dialog",
			Name:      "turn_latency_seconds",
			Help:      "Latency of code hook turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.validationFailures, m.unsupportedTotal, m.bookingsTotal, m.turnLatency)
	return m
}

func (m *DialogMetrics) ObserveTurn(intent, source, action string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, sourceLabel(source), action).Inc()
}

func (m *DialogMetrics) ObserveValidationFailure(intent, slot string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(intent, slot).Inc()
}

func (m *DialogMetrics) ObserveUnsupportedIntent(intent string) {
	if m == nil {
		return
	}
	m.unsupportedTotal.WithLabelValues(unsupportedIntentLabel(intent)).Inc()
}

func (m *DialogMetrics) ObserveBooking(appointmentType, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(m.appointmentTypeLabel(appointmentType), outcome).Inc()
}

func (m *DialogMetrics) ObserveTurnLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}

func unsupportedIntentLabel(intent string) string {
	if _, ok := builtinIntents[intent]; ok {
		return intent
	}
	return LabelOther
}

func (m *DialogMetrics) appointmentTypeLabel(appointmentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(appointmentType))
	if _, ok := m.appointmentTypes[normalized]; ok {
		return normalized
	}
	return LabelOther
}

func sourceLabel(source string) string {
	switch source {
	case "DialogCodeHook", "FulfillmentCodeHook":
		return source
	}
	return LabelOther
}
