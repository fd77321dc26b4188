package inferloop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/inferloop/config"
	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/model"
	"github.com/inferloop/inferloop/tool"
)

func TestClientPrompt(t *testing.T) {
	m := model.NewMockModel("facade")
	m.EnqueueText("hi there", core.TokenUsage{InputTokens: 2, OutputTokens: 2, TotalTokens: 4})

	client, err := New(m)
	require.NoError(t, err)

	turn, err := client.Prompt(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hi there", turn.Response.Text())
	assert.Equal(t, 1, turn.Cycles)
}

func TestClientToolRoundTrip(t *testing.T) {
	m := model.NewMockModel("facade")
	m.EnqueueToolCalls(core.TokenUsage{}, core.ToolCall{ID: "c1", Name: "time"})
	m.EnqueueText("it is noon", core.TokenUsage{})

	clock := tool.NewFunctionTool("time", "current time", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return "12:00", nil
		})

	client, err := New(m, func(o *Options) {
		o.Tools = []tool.Tool{clock}
	})
	require.NoError(t, err)

	turn, err := client.Generate(context.Background(), nil, core.NewUserTextMessage("what time is it?"))
	require.NoError(t, err)

	assert.Equal(t, "it is noon", turn.Response.Text())
	require.Len(t, turn.ToolExecutions, 1)
	assert.Equal(t, "12:00", turn.ToolExecutions[0].Result)
}

func TestClientStream(t *testing.T) {
	m := model.NewMockModel("facade")
	m.Enqueue(model.MockResponse{
		Events: []core.StreamEvent{{Type: core.StreamTextDelta, Text: "streamed"}},
		Response: &model.Response{
			Message: core.NewAssistantMessage([]core.Part{core.TextPart{Text: "streamed"}}, nil),
		},
	})

	client, err := New(m)
	require.NoError(t, err)

	stream, err := client.Stream(context.Background(), nil, core.NewUserTextMessage("go"))
	require.NoError(t, err)

	var text string
	for ev := range stream.Events() {
		text += ev.Text
	}
	assert.Equal(t, "streamed", text)

	turn, err := stream.Wait()
	require.NoError(t, err)
	assert.Equal(t, "streamed", turn.Response.Text())
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Run: config.RunConfig{MaxIterations: 2, EventBufferSize: 8, MaxParallelTools: 1},
		Log: config.LogConfig{Level: "error", Format: "json"},
	}

	var opts Options
	FromConfig(cfg)(&opts)

	assert.Equal(t, 2, opts.Config.MaxIterations)
	assert.Equal(t, 8, opts.Config.EventBufferSize)
	assert.Equal(t, 1, opts.Config.MaxParallelTools)
	assert.NotNil(t, opts.Logger)
}
