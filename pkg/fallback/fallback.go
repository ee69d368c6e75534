// Package fallback implements the single retry policy shared by code
// generation and execution: one primary attempt, then at most one
// secondary attempt against a legacy endpoint.
package fallback

import (
	"context"
	"fmt"

	"github.com/devicelab-dev/exploration-panel/pkg/logger"
)

// Source identifies which attempt produced a result.
type Source int

const (
	SourceNone Source = iota
	SourcePrimary
	SourceSecondary
)

// String returns the string representation of Source
func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Attempt describes one request of the policy.
type Attempt[T any] struct {
	Name string
	Do   func(ctx context.Context) (T, error)
}

// Exhausted is returned when both attempts failed.
type Exhausted struct {
	Primary   error
	Secondary error
}

// Error reports the primary failure; the secondary one is kept for callers
// that prefer it.
func (e *Exhausted) Error() string {
	if e.Primary == nil {
		return fmt.Sprintf("all attempts failed: %v", e.Secondary)
	}
	return e.Primary.Error()
}

// Unwrap exposes both failures to errors.Is and errors.As.
func (e *Exhausted) Unwrap() []error {
	var errs []error
	if e.Primary != nil {
		errs = append(errs, e.Primary)
	}
	if e.Secondary != nil {
		errs = append(errs, e.Secondary)
	}
	return errs
}

// Run executes primary and, only if it fails, secondary. The secondary is
// never invoked more than once, and never when the context is already done.
func Run[T any](ctx context.Context, primary, secondary Attempt[T]) (T, Source, error) {
	var zero T

	v, perr := primary.Do(ctx)
	if perr == nil {
		return v, SourcePrimary, nil
	}
	logger.Warn("%s failed: %v", nameOf(primary, "primary"), perr)

	if secondary.Do == nil {
		return zero, SourceNone, &Exhausted{Primary: perr}
	}
	if err := ctx.Err(); err != nil {
		return zero, SourceNone, &Exhausted{Primary: perr, Secondary: err}
	}

	logger.Info("falling back to %s", nameOf(secondary, "secondary"))
	v, serr := secondary.Do(ctx)
	if serr == nil {
		return v, SourceSecondary, nil
	}
	logger.Warn("%s failed: %v", nameOf(secondary, "secondary"), serr)

	return zero, SourceNone, &Exhausted{Primary: perr, Secondary: serr}
}

func nameOf[T any](a Attempt[T], def string) string {
	if a.Name != "" {
		return a.Name
	}
	return def
}
