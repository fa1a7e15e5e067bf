package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeNotConfigured   = "not_configured"
	OutcomeError           = "error"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics exposes tax service counters. A nil *Metrics records nothing.
type Metrics struct {
	calculations       *prometheus.CounterVec
	ruleConfigurations *prometheus.CounterVec
}

// New registers the counters on registerer (prometheus.DefaultRegisterer when nil)
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxcal_calculations_total",
		Help: "Tax calculations by outcome.",
	}, []string{"outcome"})
	ruleConfigurations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxcal_rule_configurations_total",
		Help: "Tax rule configuration attempts by outcome.",
	}, []string{"outcome"})

	registerer.MustRegister(calculations, ruleConfigurations)

	return &Metrics{
		calculations:       calculations,
		ruleConfigurations: ruleConfigurations,
	}
}

func (m *Metrics) ObserveCalculation(outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRuleConfiguration(outcome string) {
	if m == nil {
		return
	}
	m.ruleConfigurations.WithLabelValues(outcome).Inc()
}

// CalculationCounter returns the counter for one calculation outcome
func (m *Metrics) CalculationCounter(outcome string) prometheus.Counter {
	return m.calculations.WithLabelValues(outcome)
}

// RuleConfigurationCounter returns the counter for one configuration outcome
func (m *Metrics) RuleConfigurationCounter(outcome string) prometheus.Counter {
	return m.ruleConfigurations.WithLabelValues(outcome)
}
