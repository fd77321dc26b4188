package tool

import (
	"context"

	"github.com/inferloop/inferloop/internal/schema"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// Tool, optionally guarded by an approval function.
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
	approvalFn  func(ctx context.Context, args map[string]any) (bool, error)
}

// Options configure optional FunctionTool behavior.
type Options struct {
	// ApprovalFn, when set, is consulted before every execution. See Approver.
	ApprovalFn func(ctx context.Context, args map[string]any) (bool, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and
// implementation function.
//
// Example:
//
//	sum := tool.NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
	optFns ...func(o *Options),
) *FunctionTool {
	opts := Options{}
	for _, f := range optFns {
		f(&opts)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
		approvalFn:  opts.ApprovalFn,
	}
}

// NewFunctionToolFromStruct constructs a FunctionTool whose parameter schema
// is derived from the exported fields of the given struct value. Field names
// come from json tags, documentation from description tags; pointer and
// omitempty fields are optional.
//
// Example:
//
//	type weatherArgs struct {
//	  City string `json:"city" description:"City to look up"`
//	  Unit *string `json:"unit,omitempty" description:"celsius or fahrenheit"`
//	}
//
//	weather := tool.NewFunctionToolFromStruct(
//	  "get_weather", "Get current weather for a city", weatherArgs{},
//	  func(ctx context.Context, args map[string]any) (any, error) { ... },
//	)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (any, error),
	optFns ...func(o *Options),
) *FunctionTool {
	return NewFunctionTool(name, description, schema.FromStruct(structType), fn, optFns...)
}

// Name returns the unique tool name used in tool definitions and dispatch.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates args against the declared schema and invokes the wrapped
// function. A schema violation becomes a tool Error with code
// VALIDATION_ERROR; like any other tool error, it fails the single call
// rather than the run.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if t.parameters != nil {
		if err := schema.Validate(args, t.parameters); err != nil {
			return nil, NewError(t.name, err.Error(), "VALIDATION_ERROR")
		}
	}
	return t.fn(ctx, args)
}

// Approve implements Approver when an approval function was configured.
// Without one, every call is approved.
func (t *FunctionTool) Approve(ctx context.Context, args map[string]any) (bool, error) {
	if t.approvalFn == nil {
		return true, nil
	}
	return t.approvalFn(ctx, args)
}

// RequiresApproval reports whether this tool declares an approval gate.
func (t *FunctionTool) RequiresApproval() bool { return t.approvalFn != nil }
