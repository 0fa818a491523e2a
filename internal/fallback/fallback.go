// Package fallback implements the degrade-on-failure policy applied at
// every external collaborator boundary: run the primary call under a
// bounded timeout, and on any error or timeout run the deterministic
// fallback instead, reporting that degradation occurred. Centralizing
// the policy here keeps the stages free of bespoke try/recover blocks.
package fallback

import (
	"context"
	"fmt"
	"time"
)

// Func is a fallible operation producing a value of type T.
type Func[T any] func(ctx context.Context) (T, error)

// Outcome carries the value produced by Run plus whether the fallback
// path produced it.
type Outcome[T any] struct {
	Value    T
	Degraded bool
}

// Run executes primary under the given timeout. If primary fails or
// times out, Run executes fb and marks the outcome degraded. A nil
// primary skips straight to the fallback (the collaborator is not
// configured at all). An error is returned only when the fallback
// itself fails, which stage contracts treat as an internal error.
func Run[T any](ctx context.Context, timeout time.Duration, primary, fb Func[T]) (Outcome[T], error) {
	if primary != nil {
		pctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		v, err := primary(pctx)
		if err == nil {
			return Outcome[T]{Value: v}, nil
		}
		// Caller cancellation is not a degradation, it is an abort.
		if ctx.Err() != nil {
			var zero T
			return Outcome[T]{Value: zero}, ctx.Err()
		}
	}

	if fb == nil {
		var zero T
		return Outcome[T]{Value: zero, Degraded: true}, fmt.Errorf("no fallback available")
	}

	v, err := fb(ctx)
	if err != nil {
		var zero T
		return Outcome[T]{Value: zero, Degraded: true}, fmt.Errorf("fallback: %w", err)
	}

	return Outcome[T]{Value: v, Degraded: true}, nil
}
