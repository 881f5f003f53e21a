package observability

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	registry prometheus.Gatherer

	StepVisits     *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	SubmitDuration *prometheus.HistogramVec
	FieldInvalid   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_step_visits_total",
				Help: "Total number of step entries",
			},
			[]string{"step"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_submissions_total",
				Help: "Total number of submission attempts by outcome",
			},
			[]string{"card_type", "outcome"},
		),
		SubmitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checkout_submit_duration_seconds",
				Help:    "Duration of calls to the submission endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		FieldInvalid: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_field_invalid_total",
				Help: "Total number of failed field validations",
			},
			[]string{"field"},
		),
	}
	reg.MustRegister(m.StepVisits, m.Submissions, m.SubmitDuration, m.FieldInvalid)
	return m
}

// Handler exposes the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Hooks returns lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.Step.String()).Inc()
		},
		OnSubmitReturn: func(_ context.Context, e *domain.SubmitEvent) {
			outcome := outcomeOf(e.IsError)
			m.Submissions.WithLabelValues(e.CardType, outcome).Inc()
			m.SubmitDuration.WithLabelValues(outcome).Observe(e.Duration.Seconds())
		},
		OnFieldInvalid: func(_ context.Context, e *domain.FieldEvent) {
			m.FieldInvalid.WithLabelValues(e.Field).Inc()
		},
	}
}

// LogHooks returns lifecycle hooks that write one structured record per event.
// Field values never reach the log, only field names and messages.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter", "session_id", e.SessionID, "step", e.Step.String())
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "session_id", e.SessionID, "step", e.Step.String())
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.InfoContext(ctx, "submit", "session_id", e.SessionID, "card_type", e.CardType)
		},
		OnSubmitReturn: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.InfoContext(ctx, "submit_return",
				"session_id", e.SessionID,
				"is_error", e.IsError,
				"duration_ms", strconv.FormatInt(e.Duration.Milliseconds(), 10),
			)
		},
		OnFieldInvalid: func(ctx context.Context, e *domain.FieldEvent) {
			logger.DebugContext(ctx, "field_invalid", "session_id", e.SessionID, "field", e.Field, "message", e.Message)
		},
	}
}

func outcomeOf(isError bool) string {
	if isError {
		return "error"
	}
	return "success"
}
