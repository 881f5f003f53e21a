package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/checkout/pkg/card"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/runner"
	"github.com/aretw0/checkout/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
)

var fieldNames = append(append([]string{}, domain.PersonalFields...), domain.PaymentFields...)

func sessionArg() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Checkout session ID returned by start_checkout"))
}

func fieldArg() mcp.ToolOption {
	return mcp.WithString("field", mcp.Required(), mcp.Enum(fieldNames...), mcp.Description("Form input name"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_checkout",
		mcp.WithDescription("Start a new checkout at the personal information step."),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_checkout",
		mcp.WithDescription("Render the current view of a checkout."),
		sessionArg(),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Type a value into a form input. Card inputs are reformatted as typed."),
		sessionArg(),
		fieldArg(),
		mcp.WithString("value", mcp.Required(), mcp.Description("Raw input value")),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetField))

	s.mcpServer.AddTool(mcp.NewTool("validate_field",
		mcp.WithDescription("Leave a form input. Card number, expiry and CVV are validated and annotated."),
		sessionArg(),
		fieldArg(),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidateField))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Press Next (or Pay on the card step). Invalid steps stay put and report their fields."),
		sessionArg(),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.transition(s.engine.Advance)))

	s.mcpServer.AddTool(mcp.NewTool("retreat",
		mcp.WithDescription("Go back from the card step to the personal step."),
		sessionArg(),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.transition(s.engine.Retreat)))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Clear both forms and return to the first step."),
		sessionArg(),
		mcp.WithOutputSchema[CheckoutResponse](),
	), mcp.NewStructuredToolHandler(s.transition(s.engine.Reset)))

	s.mcpServer.AddTool(mcp.NewTool("check_card",
		mcp.WithDescription("Validate card data offline without touching any session."),
		mcp.WithString("number", mcp.Required(), mcp.Description("Card number, separators allowed")),
		mcp.WithString("expiry", mcp.Description("Expiry as MM/YY")),
		mcp.WithString("cvv", mcp.Description("Card verification value")),
		mcp.WithOutputSchema[CardCheck](),
	), mcp.NewStructuredToolHandler(s.handleCheckCard))
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckoutResponse, error) {
	created, err := s.sessions.Create(ctx)
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return s.respond(ctx, created, nil)
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckoutResponse, error) {
	sessionID, _ := args["session_id"].(string)
	current, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return s.respond(ctx, current, nil)
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckoutResponse, error) {
	sessionID, _ := args["session_id"].(string)
	field, _ := args["field"].(string)
	value, _ := args["value"].(string)

	clean, err := runner.SanitizeField(value)
	if err != nil {
		s.logger.Warn("MCP set_field: Input rejected", "err", err, "size", len(value))
		return CheckoutResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	return s.update(ctx, sessionID, func(ctx context.Context, cur *domain.FormSession) (*domain.FormSession, error) {
		return s.engine.ChangeField(ctx, cur, field, clean)
	})
}

func (s *Server) handleValidateField(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckoutResponse, error) {
	sessionID, _ := args["session_id"].(string)
	field, _ := args["field"].(string)
	return s.update(ctx, sessionID, func(ctx context.Context, cur *domain.FormSession) (*domain.FormSession, error) {
		return s.engine.ValidateField(ctx, cur, field)
	})
}

func (s *Server) transition(op session.UpdateFunc) func(context.Context, mcp.CallToolRequest, map[string]interface{}) (CheckoutResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckoutResponse, error) {
		sessionID, _ := args["session_id"].(string)
		return s.update(ctx, sessionID, op)
	}
}

func (s *Server) update(ctx context.Context, sessionID string, op session.UpdateFunc) (CheckoutResponse, error) {
	next, err := s.sessions.Update(ctx, sessionID, op)
	if next == nil {
		return CheckoutResponse{}, err
	}
	return s.respond(ctx, next, err)
}

// respond renders the session. Flow errors become part of the response;
// anything else is a tool failure.
func (s *Server) respond(ctx context.Context, fs *domain.FormSession, opErr error) (CheckoutResponse, error) {
	var resp CheckoutResponse
	if opErr != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(opErr, &verr):
			resp.Error = domain.ErrValidation.Error()
			resp.FieldErrors = verr.Fields
		case errors.Is(opErr, domain.ErrSubmission):
			// The cause stays in the server log.
			resp.Error = domain.ErrSubmission.Error()
		default:
			return CheckoutResponse{}, opErr
		}
	}

	view, err := s.engine.Render(ctx, fs)
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("render failed: %w", err)
	}
	resp.View = view
	return resp, nil
}

// CardCheck reports offline validation of card data.
type CardCheck struct {
	Formatted string       `json:"formatted" jsonschema_description:"Number with separators"`
	Network   string       `json:"network,omitempty" jsonschema_description:"Detected network display name"`
	CVVLength int          `json:"cvv_length" jsonschema_description:"Required CVV length"`
	Number    FieldStatus  `json:"number"`
	Expiry    *FieldStatus `json:"expiry,omitempty"`
	CVV       *FieldStatus `json:"cvv,omitempty"`
}

// FieldStatus is the outcome of one validation.
type FieldStatus struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleCheckCard(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CardCheck, error) {
	raw, _ := args["number"].(string)
	// Same path as the form: format as typed, then validate.
	number := card.FormatNumber(raw)
	_, err := card.ValidateNumber(number)

	check := CardCheck{
		Formatted: number,
		CVVLength: card.RequiredCVVLength(number),
		Number:    statusOf(err),
	}
	if rule, ok := card.Detect(card.StripSpaces(number)); ok {
		check.Network = rule.Name
	}

	if expiry, ok := args["expiry"].(string); ok && expiry != "" {
		_, err := card.ValidateExpiry(card.FormatExpiry(expiry), s.now())
		st := statusOf(err)
		check.Expiry = &st
	}
	if cvv, ok := args["cvv"].(string); ok && cvv != "" {
		st := statusOf(card.ValidateCVV(card.FormatCVV(cvv), number))
		check.CVV = &st
	}
	return check, nil
}

func statusOf(err error) FieldStatus {
	if err == nil {
		return FieldStatus{Valid: true}
	}
	var ce *card.Error
	if errors.As(err, &ce) {
		return FieldStatus{Message: ce.Message}
	}
	return FieldStatus{Message: err.Error()}
}
