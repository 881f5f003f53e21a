package checkout

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/checkout/internal/runtime"
	"github.com/aretw0/checkout/pkg/adapters/formpost"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
)

// Engine is the high-level entry point for the checkout library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime   *runtime.Engine
	submitter ports.Submitter
	endpoint  string
	timeout   time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.FlowController = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSubmitter injects a custom Submitter, bypassing the default form-post client.
func WithSubmitter(s ports.Submitter) Option {
	return func(e *Engine) {
		e.submitter = s
	}
}

// WithEndpoint configures the default form-post client.
func WithEndpoint(endpoint string) Option {
	return func(e *Engine) {
		e.endpoint = endpoint
	}
}

// WithSubmitTimeout bounds a single submission attempt of the default client.
func WithSubmitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes a new checkout Engine.
// Without WithSubmitter, submissions go to the WithEndpoint URL; with neither,
// every submission fails and the flow never reaches confirmation.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.submitter == nil {
		client, err := formpost.New(eng.endpoint,
			formpost.WithTimeout(eng.timeout),
			formpost.WithLogger(eng.logger),
		)
		if err != nil {
			return nil, err
		}
		if eng.endpoint == "" {
			eng.logger.Warn("no submission endpoint configured")
		}
		eng.submitter = client
	}

	eng.runtime = runtime.NewEngine(eng.submitter,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.now),
	)
	return eng, nil
}

// Start creates a clean session at the personal step and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	return e.runtime.Start(ctx, sessionID)
}

// Advance validates the current step and moves forward, submitting on the card step.
func (e *Engine) Advance(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	return e.runtime.Advance(ctx, s)
}

// Retreat moves from the card step back to the personal step.
func (e *Engine) Retreat(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	return e.runtime.Retreat(ctx, s)
}

// Reset clears both forms and returns to the personal step.
func (e *Engine) Reset(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	return e.runtime.Reset(ctx, s)
}

// ChangeField applies an input event to a field.
func (e *Engine) ChangeField(ctx context.Context, s *domain.FormSession, field, value string) (*domain.FormSession, error) {
	return e.runtime.ChangeField(ctx, s, field, value)
}

// ValidateField applies a blur event to a field.
func (e *Engine) ValidateField(ctx context.Context, s *domain.FormSession, field string) (*domain.FormSession, error) {
	return e.runtime.ValidateField(ctx, s, field)
}

// Render generates the view of a session without changing it.
func (e *Engine) Render(ctx context.Context, s *domain.FormSession) (domain.View, error) {
	return e.runtime.Render(ctx, s)
}

// Submitter returns the collaborator receiving completed checkouts.
func (e *Engine) Submitter() ports.Submitter {
	return e.submitter
}
