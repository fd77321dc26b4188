package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTurn(t *testing.T) {
	t.Run("response is the last assistant message", func(t *testing.T) {
		first := NewAssistantMessage([]Part{TextPart{Text: "thinking"}}, []ToolCall{{ID: "c1", Name: "calc"}})
		results := NewToolResultMessage([]ToolResult{{ToolCallID: "c1", Result: "42"}})
		last := NewAssistantMessage([]Part{TextPart{Text: "done"}}, nil)

		turn, err := NewTurn([]Message{first, results, last}, nil, Usage{}, 2, nil)
		require.NoError(t, err)

		assert.Equal(t, last.ID, turn.Response.ID)
		assert.Equal(t, "done", turn.Response.Text())
		assert.Len(t, turn.Messages, 3)
		assert.Equal(t, 2, turn.Cycles)
	})

	t.Run("fails without an assistant message", func(t *testing.T) {
		msgs := []Message{NewUserTextMessage("hello")}

		turn, err := NewTurn(msgs, nil, Usage{}, 1, nil)

		assert.Nil(t, turn)
		assert.ErrorIs(t, err, ErrNoAssistantMessage)
	})

	t.Run("carries structured payload when provided", func(t *testing.T) {
		data := map[string]any{"answer": 42}
		msgs := []Message{NewAssistantMessage(nil, nil)}

		turn, err := NewTurn(msgs, nil, Usage{}, 1, data)
		require.NoError(t, err)

		assert.Equal(t, data, turn.Data)
	})
}
