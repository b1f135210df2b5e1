package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the onboarding counters exposed on /metrics.
type Metrics struct {
	Transitions  *prometheus.CounterVec
	Completed    prometheus.Counter
	FieldErrors  prometheus.Counter
	Exports      prometheus.Counter
	Applications *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rasoichef",
			Subsystem: "onboarding",
			Name:      "transitions_total",
			Help:      "Wizard step transitions by kind (advance, retreat, start, cancel).",
		}, []string{"kind"}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rasoichef",
			Subsystem: "onboarding",
			Name:      "completed_total",
			Help:      "Onboarding flows that reached the completed state.",
		}),
		FieldErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rasoichef",
			Subsystem: "onboarding",
			Name:      "field_errors_total",
			Help:      "Field writes rejected by the wizard.",
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rasoichef",
			Subsystem: "admin",
			Name:      "exports_total",
			Help:      "Application exports sent to the admin chat.",
		}),
		Applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rasoichef",
			Subsystem: "admin",
			Name:      "decisions_total",
			Help:      "Admin decisions on partner applications.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.Transitions, m.Completed, m.FieldErrors, m.Exports, m.Applications)
	return m
}
