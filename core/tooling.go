package core

import "time"

// ToolCall is a tool invocation request emitted by the model. IDs are unique
// within one model response and correlate requests with their results.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the outcome of one tool call as handed back to the model.
// On failure Result holds the error message and IsError is true.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Result     any    `json:"result,omitempty"`
	IsError    bool   `json:"is_error"`
}

// ToolExecution is an audit record for one dispatched tool call. Records are
// appended in completion order to a log owned by the orchestration invocation
// that produced them. Arguments reflect the effective arguments the tool ran
// with, which may differ from the model's request when a before-call hook
// overrode them.
type ToolExecution struct {
	ToolName   string         `json:"tool_name"`
	ToolCallID string         `json:"tool_call_id"`
	Arguments  map[string]any `json:"arguments,omitempty"`
	Result     any            `json:"result,omitempty"`
	IsError    bool           `json:"is_error"`
	Duration   time.Duration  `json:"duration"`

	// Approved is set only when the tool declared an approval gate.
	Approved *bool `json:"approved,omitempty"`
}
