// Package tool implements the function / tool calling subsystem: the Tool
// contract exposed to models, a generic function adapter, the registry used
// for dispatch and the Strategy hook bundle governing tool use.
package tool

import (
	"context"
	"fmt"
)

// Tool defines a callable capability exposed to the model.
//
// Identity is by name: the name appears in tool definitions sent to the
// model and in tool call requests coming back. Implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use; calls within one cycle run in parallel
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description provided to the model
	// to help it decide when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with the effective arguments. A returned error
	// is converted into a failed tool result; it never aborts the run.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Approver is an optional extension a Tool may implement to gate execution.
// Approve is called with the effective arguments before the tool runs; a
// false verdict produces a denied tool result. Unlike every other step of
// the execution pipeline, an error from Approve aborts the whole run: an
// approval gate that cannot be evaluated must not be silently bypassed.
type Approver interface {
	Approve(ctx context.Context, args map[string]any) (bool, error)
}

// Error represents a failure raised by a tool implementation. It carries the
// tool name and an optional code for categorization.
type Error struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new tool Error.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
