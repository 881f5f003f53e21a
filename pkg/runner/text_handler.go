package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	out    *termenv.Output
	secret func() (string, error)

	// Lines are read one request at a time so a hidden read on the
	// terminal never races the pump.
	requests  chan struct{}
	lines     chan inputResult
	pending   bool
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer for the confirmation screen.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithSecretReader overrides how secret prompts are read.
func WithSecretReader(fn func() (string, error)) TextHandlerOption {
	return func(h *TextHandler) {
		h.secret = fn
	}
}

// NewTextHandler creates a handler for standard text IO. When r is a
// terminal, secret prompts are read without echo.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		out:    termenv.NewOutput(w),
	}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		h.secret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(h.Writer)
			return string(b), err
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output prints the progress indicator, the error banner and the markers.
// At confirmation it prints the summary instead.
func (h *TextHandler) Output(ctx context.Context, view domain.View) error {
	fmt.Fprintln(h.Writer)
	fmt.Fprintln(h.Writer, h.progress(view.Steps))

	if view.Terminal {
		md := SummaryMarkdown(view)
		if h.Renderer != nil {
			if rendered, err := h.Renderer(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprintln(h.Writer, strings.TrimSpace(md))
		return nil
	}

	if view.PaymentError != "" {
		fmt.Fprintln(h.Writer, h.out.String("! "+view.PaymentError).Foreground(h.out.Color("#ef4444")).Bold())
	}
	fields := view.Personal
	if view.CurrentStep == domain.StepCard {
		fields = view.Payment
		if view.CardNetwork != "" {
			fmt.Fprintf(h.Writer, "Card network: %s (CVV %d digits)\n", view.CardNetwork, view.CVVLength)
		}
	}
	for _, f := range fields {
		if f.Marker != nil && f.Marker.State == domain.MarkerInvalid {
			mark := h.out.String("✗").Foreground(h.out.Color("#ef4444"))
			fmt.Fprintf(h.Writer, "  %s %s: %s\n", mark, Label(f.Name), f.Marker.Message)
		}
	}
	return nil
}

func (h *TextHandler) progress(steps []domain.StepIndicator) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		switch {
		case s.Active:
			parts = append(parts, h.out.String(fmt.Sprintf("● %d %s", s.Step, s.Name)).Bold().String())
		case s.Completed:
			parts = append(parts, h.out.String(fmt.Sprintf("✓ %d %s", s.Step, s.Name)).Foreground(h.out.Color("#22c55e")).String())
		default:
			parts = append(parts, h.out.String(fmt.Sprintf("○ %d %s", s.Step, s.Name)).Faint().String())
		}
	}
	return strings.Join(parts, "  ")
}

// Input prompts and reads one line.
func (h *TextHandler) Input(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Current != "" {
		fmt.Fprintf(h.Writer, "%s [%s]: ", p.Label, p.Current)
	} else {
		fmt.Fprintf(h.Writer, "%s: ", p.Label)
	}

	if p.Secret && h.secret != nil && !h.pending {
		text, err := h.secret()
		return strings.TrimSpace(text), err
	}

	text, err := h.readLine(ctx)
	return strings.TrimSpace(text), err
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.requests = make(chan struct{}, 1)
		h.lines = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.lines)
	for range h.requests {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.lines <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.lines <- inputResult{err: err}
			}
			return
		}
	}
}

func (h *TextHandler) readLine(ctx context.Context) (string, error) {
	h.initPump()
	// A read abandoned by a canceled context is still in flight; reuse it.
	if !h.pending {
		h.requests <- struct{}{}
		h.pending = true
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.lines:
		h.pending = false
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
