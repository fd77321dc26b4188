package core

import "time"

// Role discriminates the message variants of a conversation.
type Role string

// Message roles.
const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool_result"
)

// Message is the tagged union over user, assistant and tool_result variants.
// The Role field is the single source of truth for classification; consumers
// must switch on it rather than on any nominal type.
//
// Field usage per role:
//   - user:        Parts
//   - assistant:   Parts + ToolCalls
//   - tool_result: ToolResults
//
// A Message is immutable once constructed.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Metadata carries optional provider-namespaced metadata, keyed by
	// provider name.
	Metadata map[string]map[string]any `json:"metadata,omitempty"`

	Parts       []Part       `json:"parts,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// NewUserMessage constructs a user message from ordered content parts.
func NewUserMessage(parts ...Part) Message {
	return Message{
		ID:        NewMessageID(),
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
		Parts:     parts,
	}
}

// NewUserTextMessage constructs a user message with a single text part.
func NewUserTextMessage(text string) Message {
	return NewUserMessage(TextPart{Text: text})
}

// NewAssistantMessage constructs an assistant message with content parts and
// optional tool call requests.
func NewAssistantMessage(parts []Part, toolCalls []ToolCall) Message {
	return Message{
		ID:        NewMessageID(),
		Role:      RoleAssistant,
		CreatedAt: time.Now().UTC(),
		Parts:     parts,
		ToolCalls: toolCalls,
	}
}

// NewToolResultMessage constructs a tool_result message answering one batch
// of tool calls, one entry per call.
func NewToolResultMessage(results []ToolResult) Message {
	return Message{
		ID:          NewMessageID(),
		Role:        RoleToolResult,
		CreatedAt:   time.Now().UTC(),
		ToolResults: results,
	}
}

// HasToolCalls reports whether this assistant message requested tool calls.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// Text returns the concatenated text content of the message.
func (m Message) Text() string { return Text(m.Parts) }

// Conversation is an ordered, append-only message history convenience
// container. The zero value is usable.
type Conversation struct {
	messages []Message
}

// NewConversation seeds a conversation with an initial history.
func NewConversation(history ...Message) *Conversation {
	return &Conversation{messages: append([]Message(nil), history...)}
}

// Append adds messages to the end of the conversation.
func (c *Conversation) Append(msgs ...Message) { c.messages = append(c.messages, msgs...) }

// Messages returns a copy of the ordered message history.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int { return len(c.messages) }
