// Package openai provides a bound-model adapter for the OpenAI Chat
// Completions API, including streaming with tool-call delta aggregation. It
// adapts the engine's normalized Request/Response structures into the SDK's
// message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// aggCall aggregates partial tool call streaming deltas (id, name,
// arguments) so complete tool calls can be reconstructed when the finish
// reason arrives.
type aggCall struct{ id, name, args string }

// Options configure the OpenAI adapter. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without
// breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the model.Model
// interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI model using the official client.
func New(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI model from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model for the blocking path.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params, requestOptions(req)...)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api error: no choices returned")
	}

	choice := resp.Choices[0]
	var parts []core.Part
	if choice.Message.Content != "" {
		parts = append(parts, core.TextPart{Text: choice.Message.Content})
	}
	var toolCalls []core.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: parseArguments(tc.Function.Arguments),
		})
	}

	return &model.Response{
		Message: core.NewAssistantMessage(parts, toolCalls),
		Usage: core.TokenUsage{
			InputTokens:     int(resp.Usage.PromptTokens),
			OutputTokens:    int(resp.Usage.CompletionTokens),
			TotalTokens:     int(resp.Usage.TotalTokens),
			CacheReadTokens: int(resp.Usage.PromptTokensDetails.CachedTokens),
		},
		StopReason: choice.FinishReason,
	}, nil
}

// Stream implements model.Model. Text and tool-call deltas are forwarded as
// stream events; the final response resolves once the SDK stream ends.
func (m *Model) Stream(ctx context.Context, req model.Request) (*model.Stream, error) {
	params := m.buildParams(req)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := m.client.Chat.Completions.NewStreaming(ctx, params, requestOptions(req)...)

	events := make(chan core.StreamEvent, 32)
	respCh := make(chan *model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)

		var textBuilder strings.Builder
		toolAgg := map[int64]*aggCall{}
		var toolOrder []int64
		var usage core.TokenUsage
		finishReason := "stop"

		send := func(ev core.StreamEvent) bool {
			select {
			case <-ctx.Done():
				return false
			case events <- ev:
				return true
			}
		}

		send(core.StreamEvent{Type: core.StreamMessageStart})

		for stream.Next() {
			chunk := stream.Current()
			if chunk.Usage.TotalTokens > 0 {
				usage = core.TokenUsage{
					InputTokens:     int(chunk.Usage.PromptTokens),
					OutputTokens:    int(chunk.Usage.CompletionTokens),
					TotalTokens:     int(chunk.Usage.TotalTokens),
					CacheReadTokens: int(chunk.Usage.PromptTokensDetails.CachedTokens),
				}
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					textBuilder.WriteString(choice.Delta.Content)
					if !send(core.StreamEvent{Type: core.StreamTextDelta, Text: choice.Delta.Content}) {
						errCh <- ctx.Err()
						return
					}
				}
				for _, tc := range choice.Delta.ToolCalls {
					ac, ok := toolAgg[tc.Index]
					if !ok {
						ac = &aggCall{}
						toolAgg[tc.Index] = ac
						toolOrder = append(toolOrder, tc.Index)
					}
					if tc.ID != "" {
						ac.id = tc.ID
					}
					if tc.Function.Name != "" {
						ac.name = tc.Function.Name
					}
					if tc.Function.Arguments != "" {
						ac.args += tc.Function.Arguments
					}
					ev := core.StreamEvent{
						Type:           core.StreamToolCallDelta,
						Index:          int(tc.Index),
						ToolCallID:     ac.id,
						ToolName:       ac.name,
						ArgumentsDelta: tc.Function.Arguments,
					}
					if !send(ev) {
						errCh <- ctx.Err()
						return
					}
				}
				if choice.FinishReason != "" {
					finishReason = choice.FinishReason
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
			return
		}

		send(core.StreamEvent{Type: core.StreamMessageStop})

		var parts []core.Part
		if textBuilder.Len() > 0 {
			parts = append(parts, core.TextPart{Text: textBuilder.String()})
		}
		var toolCalls []core.ToolCall
		for _, idx := range toolOrder {
			ac := toolAgg[idx]
			toolCalls = append(toolCalls, core.ToolCall{
				ID:        ac.id,
				Name:      ac.name,
				Arguments: parseArguments(ac.args),
			})
		}

		respCh <- &model.Response{
			Message:    core.NewAssistantMessage(parts, toolCalls),
			Usage:      usage,
			StopReason: finishReason,
		}
	}()

	return &model.Stream{Events: events, Response: respCh, Errs: errCh}, nil
}

// Capabilities implements model.Model.
func (m *Model) Capabilities() model.Capabilities {
	return model.Capabilities{Streaming: true, Tools: true}
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai"}
}

// buildParams assembles the Chat Completions request including tool
// definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if p := req.Params; p != nil {
		if p.Temperature != nil {
			params.Temperature = openai.Float(*p.Temperature)
		}
		if p.TopP != nil {
			params.TopP = openai.Float(*p.TopP)
		}
		if p.MaxTokens != nil {
			params.MaxCompletionTokens = openai.Int(*p.MaxTokens)
		}
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
		for i, def := range req.Tools {
			tools[i] = openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        def.Name,
					Description: openai.String(def.Description),
					Parameters:  def.Parameters,
				},
			}
		}
		params.Tools = tools
	}

	return params
}

// buildMessages converts engine messages into Chat Completions messages.
// Tool results map to one tool-role message per answered call.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleUser:
			if text := msg.Text(); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		case core.RoleAssistant:
			if !msg.HasToolCalls() {
				messages = append(messages, openai.AssistantMessage(msg.Text()))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, call := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   call.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: encodeArguments(call.Arguments),
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case core.RoleToolResult:
			for _, res := range msg.ToolResults {
				messages = append(messages, openai.ToolMessage(stringify(res.Result), res.ToolCallID))
			}
		}
	}

	return messages
}

func requestOptions(req model.Request) []option.RequestOption {
	var opts []option.RequestOption
	for k, v := range req.Config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return opts
}

func parseArguments(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"_raw": raw}
	}
	return args
}

func encodeArguments(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if raw, err := json.Marshal(v); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", v)
}
