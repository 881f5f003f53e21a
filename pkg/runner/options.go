package runner

import (
	"log/slog"

	"github.com/aretw0/checkout/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the flow controller. Required.
func WithEngine(engine ports.FlowController) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithStore configures the StateStore for persistence.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session ID. With a store, an existing session
// under this ID is resumed.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}
