package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/inferloop/core"
)

func TestMockModelComplete(t *testing.T) {
	m := NewMockModel("test")
	m.EnqueueText("scripted", core.TokenUsage{InputTokens: 1})
	m.Enqueue(MockResponse{Err: errors.New("scripted failure")})

	req := Request{Messages: []core.Message{core.NewUserTextMessage("hi")}}

	resp, err := m.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "scripted", resp.Message.Text())
	assert.Equal(t, 1, resp.Usage.InputTokens)

	_, err = m.Complete(context.Background(), req)
	assert.EqualError(t, err, "scripted failure")

	// Past the script: canned responses, not failures.
	resp, err = m.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message.Text())

	assert.Equal(t, 3, m.Calls())
	assert.Len(t, m.Requests(), 3)
}

func TestMockModelStream(t *testing.T) {
	m := NewMockModel("test")
	m.Enqueue(MockResponse{
		Events: []core.StreamEvent{
			{Type: core.StreamMessageStart},
			{Type: core.StreamTextDelta, Text: "chunk"},
		},
		Response: &Response{Message: core.NewAssistantMessage([]core.Part{core.TextPart{Text: "chunk"}}, nil)},
	})

	stream, err := m.Stream(context.Background(), Request{})
	require.NoError(t, err)

	var got []core.StreamEvent
	for ev := range stream.Events {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "chunk", got[1].Text)

	resp := <-stream.Response
	assert.Equal(t, "chunk", resp.Message.Text())
}

func TestCapabilitiesSupportsMedia(t *testing.T) {
	caps := Capabilities{ImageInput: true, DocumentInput: true}

	assert.True(t, caps.SupportsMedia(core.MediaImage))
	assert.True(t, caps.SupportsMedia(core.MediaDocument))
	assert.False(t, caps.SupportsMedia(core.MediaAudio))
	assert.False(t, caps.SupportsMedia(core.MediaVideo))
}
