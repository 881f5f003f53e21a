/*
Package checkout is a UI-agnostic payment flow: a three-step form
(Personal Info, Card Info, Confirmation) with client-side card validation
and a single hand-off of the collected data to an external endpoint.

The engine is stateless. A host (HTTP server, MCP server, terminal) keeps a
FormSession, feeds input and blur events through ChangeField and
ValidateField, moves the flow with Advance, Retreat and Reset, and displays
whatever Render returns.

# Usage

	eng, err := checkout.New(checkout.WithEndpoint("https://forms.example.com/pay"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, _ := eng.Start(ctx, "session-123")
	s, _ = eng.ChangeField(ctx, s, "firstName", "Eleanore")
	// ... remaining personal fields

	s, err = eng.Advance(ctx, s)
	if errors.Is(err, domain.ErrValidation) {
		view, _ := eng.Render(ctx, s)
		// show view.Personal markers
	}

Advance on the card step validates the number, expiry and CVV, and only
submits when all of them pass. A failed submission keeps the session on the
card step with every value intact and returns a *domain.SubmissionError.

Card rules are also available without a session in package card.
*/
package checkout
