package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	t.Run("user message", func(t *testing.T) {
		msg := NewUserTextMessage("hello")

		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, RoleUser, msg.Role)
		assert.False(t, msg.CreatedAt.IsZero())
		assert.Equal(t, "hello", msg.Text())
		assert.False(t, msg.HasToolCalls())
	})

	t.Run("assistant message with tool calls", func(t *testing.T) {
		calls := []ToolCall{{ID: "c1", Name: "calc", Arguments: map[string]any{"a": 1.0}}}
		msg := NewAssistantMessage([]Part{TextPart{Text: "let me check"}}, calls)

		assert.Equal(t, RoleAssistant, msg.Role)
		assert.True(t, msg.HasToolCalls())
		assert.Equal(t, "let me check", msg.Text())
	})

	t.Run("tool result message", func(t *testing.T) {
		msg := NewToolResultMessage([]ToolResult{{ToolCallID: "c1", Result: "42"}})

		assert.Equal(t, RoleToolResult, msg.Role)
		require.Len(t, msg.ToolResults, 1)
		assert.Equal(t, "c1", msg.ToolResults[0].ToolCallID)
	})

	t.Run("message ids are unique", func(t *testing.T) {
		a := NewUserTextMessage("a")
		b := NewUserTextMessage("b")

		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestTextConcatenatesParts(t *testing.T) {
	msg := NewUserMessage(
		TextPart{Text: "first"},
		MediaPart{Kind: MediaImage, MimeType: "image/png", URI: "https://example.com/x.png"},
		TextPart{Text: "second"},
	)

	assert.Equal(t, "firstsecond", msg.Text())
}

func TestConversation(t *testing.T) {
	conv := NewConversation(NewUserTextMessage("hi"))
	conv.Append(NewAssistantMessage([]Part{TextPart{Text: "hello"}}, nil))

	assert.Equal(t, 2, conv.Len())

	// Messages returns a copy; mutating it must not affect the conversation.
	msgs := conv.Messages()
	msgs[0] = Message{}
	assert.Equal(t, RoleUser, conv.Messages()[0].Role)
}
