package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/checkout/internal/validator"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
)

// Messages shown above the card form.
const (
	MsgCorrectErrors = "Please correct the errors in the payment form"
	MsgPaymentFailed = "Payment failed. Please try again."
)

var errNoSubmitter = errors.New("no submitter configured")

// Engine is the payment flow state machine.
// It is stateless: every operation works on a copy of the given session.
type Engine struct {
	submitter ports.Submitter
	checker   *validator.Checker
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithChecker replaces the host form constraints.
func WithChecker(c *validator.Checker) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.checker = c
		}
	}
}

// NewEngine creates a new engine. The submitter receives the record when
// the card step is completed; a nil submitter makes every submission fail.
func NewEngine(submitter ports.Submitter, opts ...EngineOption) *Engine {
	e := &Engine{
		submitter: submitter,
		checker:   validator.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates the initial session and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	s := domain.NewFormSession(sessionID)
	e.emitStepEnter(ctx, s.ID, s.CurrentStep)
	e.logger.Debug("checkout started", "session_id", s.ID)
	return s, nil
}

func checkSession(s *domain.FormSession) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if !s.CurrentStep.Valid() {
		return fmt.Errorf("session %s: invalid step %d", s.ID, int(s.CurrentStep))
	}
	return nil
}

// transitionTo moves s to step, recording history and firing hooks.
func (e *Engine) transitionTo(ctx context.Context, s *domain.FormSession, step domain.Step) *domain.FormSession {
	e.emitStepLeave(ctx, s.ID, s.CurrentStep)
	s.CurrentStep = step
	s.History = append(s.History, step)
	e.emitStepEnter(ctx, s.ID, step)
	e.logger.Debug("step changed", "session_id", s.ID, "step", step.String())
	return s
}
