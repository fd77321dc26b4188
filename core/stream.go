package core

import "time"

// StreamEventType discriminates the delivery kinds of a StreamEvent.
type StreamEventType string

// Stream event kinds.
const (
	StreamMessageStart       StreamEventType = "message_start"
	StreamMessageStop        StreamEventType = "message_stop"
	StreamContentBlockStart  StreamEventType = "content_block_start"
	StreamContentBlockStop   StreamEventType = "content_block_stop"
	StreamTextDelta          StreamEventType = "text_delta"
	StreamReasoningDelta     StreamEventType = "reasoning_delta"
	StreamMediaDelta         StreamEventType = "media_delta"
	StreamToolCallDelta      StreamEventType = "tool_call_delta"
	StreamToolExecutionStart StreamEventType = "tool_execution_start"
	StreamToolExecutionEnd   StreamEventType = "tool_execution_end"
)

// StreamEvent is one incremental delivery unit of a streaming invocation.
// Type selects the populated payload fields; Index is the zero-based content
// block (or tool call) index the event belongs to.
type StreamEvent struct {
	Type  StreamEventType `json:"type"`
	Index int             `json:"index"`

	// Text carries text and reasoning delta payloads.
	Text string `json:"text,omitempty"`

	// Media carries media delta payloads.
	Media *MediaPart `json:"media,omitempty"`

	// Tool call correlation for tool_call_delta and tool_execution_* events.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`

	// ArgumentsDelta is a raw fragment of the tool call argument payload.
	ArgumentsDelta string `json:"arguments_delta,omitempty"`

	// Result and IsError are set on tool_execution_end events.
	Result  any  `json:"result,omitempty"`
	IsError bool `json:"is_error,omitempty"`

	// Timestamp is set on tool_execution_start and tool_execution_end events.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewToolExecutionStartEvent marks the beginning of one tool call execution.
func NewToolExecutionStartEvent(toolCallID, toolName string, index int) StreamEvent {
	return StreamEvent{
		Type:       StreamToolExecutionStart,
		Index:      index,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Timestamp:  time.Now().UTC(),
	}
}

// NewToolExecutionEndEvent marks the settlement of one tool call execution.
func NewToolExecutionEndEvent(toolCallID, toolName string, index int, result any, isErr bool) StreamEvent {
	return StreamEvent{
		Type:       StreamToolExecutionEnd,
		Index:      index,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Result:     result,
		IsError:    isErr,
		Timestamp:  time.Now().UTC(),
	}
}
