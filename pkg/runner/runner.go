package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
)

// DefaultSessionID is used when no session ID is configured.
const DefaultSessionID = "local"

// ErrQuit is returned when the user stops the walkthrough with ":quit".
var ErrQuit = errors.New("checkout stopped by user")

type command int

const (
	cmdNone command = iota
	cmdBack
	cmdReset
	cmdQuit
)

func parseCommand(text string) command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case ":back", ":b":
		return cmdBack
	case ":reset":
		return cmdReset
	case ":quit", ":q", ":exit":
		return cmdQuit
	default:
		return cmdNone
	}
}

// Runner walks a checkout through its steps using an IOHandler.
type Runner struct {
	engine    ports.FlowController
	Store     ports.StateStore
	SessionID string
	Handler   IOHandler
	Logger    *slog.Logger
}

// NewRunner creates a new Runner with options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.SessionID == "" {
		r.SessionID = DefaultSessionID
	}
	return r
}

// Run drives the checkout until it reaches confirmation and returns the
// final session. An interrupted run returns the last session together with
// the error (ErrQuit, io.EOF or the context error).
func (r *Runner) Run(ctx context.Context) (*domain.FormSession, error) {
	if r.engine == nil {
		return nil, errors.New("runner: no engine configured")
	}

	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	retrying := false
	for {
		view, err := r.engine.Render(ctx, s)
		if err != nil {
			return s, err
		}
		if err := r.Handler.Output(ctx, view); err != nil {
			return s, err
		}
		if view.Terminal {
			return s, nil
		}

		var cmd command
		if retrying {
			cmd, err = r.confirm(ctx, "Press enter to try the payment again")
		} else {
			fields := pending
			if fields == nil {
				fields = fieldsOf(s.CurrentStep)
			}
			s, cmd, err = r.collect(ctx, s, fields)
		}
		pending, retrying = nil, false
		if err != nil {
			return s, r.interrupted(ctx, s, err)
		}

		switch cmd {
		case cmdQuit:
			return s, r.interrupted(ctx, s, ErrQuit)
		case cmdBack:
			if s, err = r.apply(ctx, s, r.engine.Retreat); err != nil {
				return s, err
			}
			continue
		case cmdReset:
			if s, err = r.apply(ctx, s, r.engine.Reset); err != nil {
				return s, err
			}
			continue
		}

		next, err := r.engine.Advance(ctx, s)
		if next != nil {
			s = next
			if saveErr := r.save(ctx, s); saveErr != nil {
				return s, saveErr
			}
		}

		var verr *domain.ValidationError
		switch {
		case err == nil:
		case errors.As(err, &verr):
			pending = make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				pending = append(pending, f.Field)
			}
		case errors.Is(err, domain.ErrSubmission):
			r.Logger.Warn("submission failed", "session_id", s.ID, "err", err)
			retrying = true
		default:
			return s, err
		}
	}
}

// collect prompts for each field, applying the input event and, for card
// inputs, the blur event. An empty answer keeps a non-empty current value.
func (r *Runner) collect(ctx context.Context, s *domain.FormSession, fields []string) (*domain.FormSession, command, error) {
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		text, err := r.Handler.Input(ctx, Prompt{
			Field:   field,
			Label:   Label(field),
			Current: display(field, s.Value(field)),
			Secret:  field == domain.FieldCVV,
		})
		if err != nil {
			return s, cmdNone, err
		}
		if cmd := parseCommand(text); cmd != cmdNone {
			return s, cmd, nil
		}

		clean, err := SanitizeField(text)
		if err != nil {
			_ = r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
			i--
			continue
		}
		if clean == "" && s.Value(field) != "" {
			continue
		}

		next, err := r.engine.ChangeField(ctx, s, field, clean)
		if err != nil {
			return s, cmdNone, err
		}
		if domain.IsPaymentField(field) {
			if next, err = r.engine.ValidateField(ctx, next, field); err != nil {
				return s, cmdNone, err
			}
			if m, ok := next.Markers[field]; ok && m.State == domain.MarkerInvalid {
				_ = r.Handler.SystemOutput(ctx, fmt.Sprintf("%s: %s", Label(field), m.Message))
			}
		}
		s = next
		if err := r.save(ctx, s); err != nil {
			return s, cmdNone, err
		}
	}
	return s, cmdNone, nil
}

func (r *Runner) confirm(ctx context.Context, label string) (command, error) {
	text, err := r.Handler.Input(ctx, Prompt{Label: label})
	if err != nil {
		return cmdNone, err
	}
	return parseCommand(text), nil
}

func (r *Runner) apply(ctx context.Context, s *domain.FormSession, op func(context.Context, *domain.FormSession) (*domain.FormSession, error)) (*domain.FormSession, error) {
	next, err := op(ctx, s)
	if err != nil {
		return s, err
	}
	return next, r.save(ctx, next)
}

func (r *Runner) load(ctx context.Context) (*domain.FormSession, error) {
	if r.Store != nil {
		s, err := r.Store.Load(ctx, r.SessionID)
		if err == nil {
			r.Logger.Info("resuming session", "session_id", r.SessionID, "step", s.CurrentStep.String())
			return s, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}
	s, err := r.engine.Start(ctx, r.SessionID)
	if err != nil {
		return nil, err
	}
	return s, r.save(ctx, s)
}

func (r *Runner) save(ctx context.Context, s *domain.FormSession) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(ctx, s.ID, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Runner) interrupted(ctx context.Context, s *domain.FormSession, err error) error {
	if r.Store != nil {
		r.Logger.Info("session saved", "session_id", s.ID, "step", s.CurrentStep.String())
	}
	return err
}

func fieldsOf(step domain.Step) []string {
	switch step {
	case domain.StepPersonal:
		return domain.PersonalFields
	case domain.StepCard:
		return domain.PaymentFields
	default:
		return nil
	}
}

// display hides the CVV in prompts.
func display(field, value string) string {
	if field == domain.FieldCVV && value != "" {
		return strings.Repeat("*", len(value))
	}
	return value
}
