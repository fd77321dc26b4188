package core

import "errors"

// ErrNoAssistantMessage signals an attempt to assemble a Turn without any
// assistant message, which violates the Turn invariant.
var ErrNoAssistantMessage = errors.New("turn contains no assistant message")

// Turn is the complete externally visible result of one generate/stream
// invocation, spanning all of its cycles.
type Turn struct {
	// Messages holds only the messages added during this invocation, not the
	// prior history it was seeded with.
	Messages []Message `json:"messages"`

	// Response is the last assistant message of the invocation.
	Response Message `json:"response"`

	// ToolExecutions lists every dispatched tool call in completion order.
	ToolExecutions []ToolExecution `json:"tool_executions,omitempty"`

	// Usage is the aggregated token usage across all cycles.
	Usage Usage `json:"usage"`

	// Cycles counts the model-call rounds the invocation performed.
	Cycles int `json:"cycles"`

	// Data carries the structured output payload, present only when a
	// structure schema was requested and the model produced one.
	Data map[string]any `json:"data,omitempty"`
}

// NewTurn assembles a Turn from the accumulated state of one invocation.
// It fails with ErrNoAssistantMessage when msgs contains no assistant
// message; a Turn always carries at least one.
func NewTurn(msgs []Message, executions []ToolExecution, usage Usage, cycles int, data map[string]any) (*Turn, error) {
	var response *Message
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleAssistant {
			response = &msgs[i]
			break
		}
	}
	if response == nil {
		return nil, ErrNoAssistantMessage
	}

	return &Turn{
		Messages:       msgs,
		Response:       *response,
		ToolExecutions: executions,
		Usage:          usage,
		Cycles:         cycles,
		Data:           data,
	}, nil
}
