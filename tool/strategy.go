package tool

import "context"

// Decision is the explicit verdict of a before-call hook: proceed (with the
// original or overridden arguments) or skip the call. The zero value
// proceeds with the original arguments.
type Decision struct {
	skip   bool
	params map[string]any
}

// Proceed lets the call continue with the model supplied arguments.
func Proceed() Decision { return Decision{} }

// ProceedWith lets the call continue with overridden arguments.
func ProceedWith(params map[string]any) Decision { return Decision{params: params} }

// Skip vetoes the call; the model receives a failed tool result.
func Skip() Decision { return Decision{skip: true} }

// Skipped reports whether the hook vetoed the call.
func (d Decision) Skipped() bool { return d.skip }

// Params returns the argument override, if any.
func (d Decision) Params() (map[string]any, bool) { return d.params, d.params != nil }

// Override replaces a tool's result from an after-call hook.
type Override struct {
	Result any
}

// Strategy bundles the caller supplied hooks and limits governing tool use
// within one orchestration invocation. All fields are optional; the zero
// value disables every hook and uses default limits.
//
// Hooks are invoked from the executor's worker goroutines and must be safe
// for concurrent use.
type Strategy struct {
	// MaxIterations caps the number of model-call cycles per invocation.
	// Zero means the engine default.
	MaxIterations int

	// OnToolCall observes every dispatched call before execution. No veto
	// power; use OnBeforeCall for that.
	OnToolCall func(ctx context.Context, name string, args map[string]any)

	// OnBeforeCall may veto a call or override its arguments. An error is
	// converted into a failed tool result.
	OnBeforeCall func(ctx context.Context, name string, args map[string]any) (Decision, error)

	// OnAfterCall may replace the result of a successful run by returning a
	// non-nil Override. An error is converted into a failed tool result.
	OnAfterCall func(ctx context.Context, name string, args map[string]any, result any) (*Override, error)

	// OnError observes tool run failures after they have been converted to
	// failed results.
	OnError func(ctx context.Context, name string, args map[string]any, err error)

	// OnMaxIterations is invoked once right before the invocation fails with
	// an iteration-ceiling error.
	OnMaxIterations func(ctx context.Context, limit int)
}
