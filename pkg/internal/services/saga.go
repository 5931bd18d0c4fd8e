package services

import (
	"context"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/rs/zerolog/log"
)

type step struct {
	name string
	// readOnly steps never count as committed work.
	readOnly bool
	run      func(ctx context.Context) error
}

type saga []step

// plan builds the steps of an operation against the given stores.
type plan func(set store.Set) saga

// run executes the plan inside one transaction when the backend supports it,
// otherwise step by step without compensation.
func (v *Coordinator) run(ctx context.Context, operation string, build plan) error {
	if v.set.Atomic != nil {
		return v.set.Atomic.Transaction(ctx, func(tx store.Set) error {
			for _, s := range build(tx) {
				if err := s.run(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return build(v.set).execute(ctx, operation)
}

func (v saga) execute(ctx context.Context, operation string) error {
	var completed []string
	for _, s := range v {
		err := ctx.Err()
		if err == nil {
			err = s.run(ctx)
		}
		if err == nil {
			if !s.readOnly {
				completed = append(completed, s.name)
			}
			continue
		}

		if len(completed) == 0 {
			return err
		}
		log.Error().Err(err).
			Str("operation", operation).
			Str("step", s.name).
			Strs("completed", completed).
			Msg("Operation failed halfway, the change is partially applied...")
		return &PartialFailureError{
			Operation: operation,
			Step:      s.name,
			Completed: completed,
			Err:       err,
		}
	}
	return nil
}
