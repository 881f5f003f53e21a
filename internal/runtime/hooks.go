package runtime

import (
	"context"
	"time"

	"github.com/aretw0/checkout/pkg/domain"
)

func (e *Engine) emitStepEnter(ctx context.Context, sessionID string, step domain.Step) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter, SessionID: sessionID},
		Step:      step,
	})
}

func (e *Engine) emitStepLeave(ctx context.Context, sessionID string, step domain.Step) {
	if e.hooks.OnStepLeave == nil {
		return
	}
	e.hooks.OnStepLeave(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepLeave, SessionID: sessionID},
		Step:      step,
	})
}

func (e *Engine) emitSubmit(ctx context.Context, sessionID, cardType string) {
	if e.hooks.OnSubmit == nil {
		return
	}
	e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmit, SessionID: sessionID},
		CardType:  cardType,
	})
}

func (e *Engine) emitSubmitReturn(ctx context.Context, sessionID, cardType string, d time.Duration, isError bool) {
	if e.hooks.OnSubmitReturn == nil {
		return
	}
	e.hooks.OnSubmitReturn(ctx, &domain.SubmitEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitReturn, SessionID: sessionID},
		CardType:  cardType,
		Duration:  d,
		IsError:   isError,
	})
}

func (e *Engine) emitFieldInvalid(ctx context.Context, sessionID string, fe domain.FieldError) {
	if e.hooks.OnFieldInvalid == nil {
		return
	}
	e.hooks.OnFieldInvalid(ctx, &domain.FieldEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFieldInvalid, SessionID: sessionID},
		Field:     fe.Field,
		Message:   fe.Message,
	})
}
