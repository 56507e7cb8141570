package asset

import (
	"context"
	"errors"
	"fmt"
)

// Choice is one candidate model and the scale it is placed at
type Choice struct {
	Model string
	Scale float64
}

// Spec orders the candidates for one visual: primary first, then fallbacks
type Spec struct {
	Primary   Choice
	Fallbacks []Choice
}

// Candidates returns primary followed by fallbacks
func (s Spec) Candidates() []Choice {
	out := make([]Choice, 0, 1+len(s.Fallbacks))
	out = append(out, s.Primary)
	return append(out, s.Fallbacks...)
}

// Result is the outcome of resolving a Spec
type Result struct {
	Model  *Model
	Choice Choice
	Tier   int     // 0 for primary, n for the nth fallback
	Errs   []error // causes of every rejected candidate before the winner
}

// UsedFallback reports whether the primary was rejected
func (r Result) UsedFallback() bool {
	return r.Tier > 0
}

// Resolve tries each candidate in order and returns the first that loads
// Context cancellation aborts immediately without trying further candidates
func Resolve(ctx context.Context, src Source, spec Spec) (Result, error) {
	var errs []error
	for tier, c := range spec.Candidates() {
		m, err := src.Load(ctx, c.Model)
		if err == nil {
			return Result{Model: m, Choice: c, Tier: tier, Errs: errs}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.Model, err))
	}
	return Result{Errs: errs}, fmt.Errorf("%w: %w", ErrAssetUnavailable, errors.Join(errs...))
}
