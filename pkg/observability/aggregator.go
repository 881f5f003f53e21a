package observability

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// Merge combines multiple hook sets into one. Callbacks run in argument order;
// nil callbacks are skipped.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnStepEnter = chainStep(out.OnStepEnter, h.OnStepEnter)
		out.OnStepLeave = chainStep(out.OnStepLeave, h.OnStepLeave)
		out.OnSubmit = chainSubmit(out.OnSubmit, h.OnSubmit)
		out.OnSubmitReturn = chainSubmit(out.OnSubmitReturn, h.OnSubmitReturn)
		out.OnFieldInvalid = chainField(out.OnFieldInvalid, h.OnFieldInvalid)
	}
	return out
}

func chainStep(a, b func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainSubmit(a, b func(context.Context, *domain.SubmitEvent)) func(context.Context, *domain.SubmitEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.SubmitEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainField(a, b func(context.Context, *domain.FieldEvent)) func(context.Context, *domain.FieldEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.FieldEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
