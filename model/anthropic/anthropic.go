// Package anthropic provides a bound-model adapter for the Anthropic
// Messages API. Streaming and media inputs are not wired through this
// adapter yet; its capability descriptor reports that, so the engine's
// capability gate rejects such requests before any call is made.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/model"
)

// Options configures the Anthropic adapter (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic model using the official client.
func New(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewFromClient creates an Anthropic model from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Complete implements model.Model for the blocking path.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req)

	var reqOpts []option.RequestOption
	for k, v := range req.Config.Headers {
		reqOpts = append(reqOpts, option.WithHeader(k, v))
	}

	resp, err := m.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var parts []core.Part
	var toolCalls []core.ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				parts = append(parts, core.TextPart{Text: textBlock.Text})
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			var args map[string]any
			if toolBlock.Input != nil {
				if raw, err := json.Marshal(toolBlock.Input); err == nil {
					_ = json.Unmarshal(raw, &args)
				}
			}
			toolCalls = append(toolCalls, core.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}

	stopReason := "stop"
	if resp.StopReason != "" {
		stopReason = string(resp.StopReason)
	}

	return &model.Response{
		Message: core.NewAssistantMessage(parts, toolCalls),
		Usage: core.TokenUsage{
			InputTokens:      int(resp.Usage.InputTokens),
			OutputTokens:     int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
			CacheReadTokens:  int(resp.Usage.CacheReadInputTokens),
			CacheWriteTokens: int(resp.Usage.CacheCreationInputTokens),
		},
		StopReason: stopReason,
	}, nil
}

// Stream implements model.Model. The adapter does not stream; the engine's
// capability gate keeps this path from being reached.
func (m *Model) Stream(ctx context.Context, req model.Request) (*model.Stream, error) {
	return nil, fmt.Errorf("anthropic adapter: streaming not supported")
}

// Capabilities implements model.Model.
func (m *Model) Capabilities() model.Capabilities {
	return model.Capabilities{Tools: true}
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: "anthropic"}
}

// buildParams assembles the Messages API request.
func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if p := req.Params; p != nil {
		if p.Temperature != nil {
			params.Temperature = anthropic.Float(*p.Temperature)
		}
		if p.TopP != nil {
			params.TopP = anthropic.Float(*p.TopP)
		}
		if p.MaxTokens != nil {
			params.MaxTokens = *p.MaxTokens
		}
		if len(p.StopSequences) > 0 {
			params.StopSequences = p.StopSequences
		}
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	return params
}

// buildMessages converts engine messages into the Messages API format. Tool
// results are sent as user-role tool_result blocks, per the API contract.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	for _, msg := range msgs {
		switch msg.Role {
		case core.RoleUser:
			var content []anthropic.ContentBlockParamUnion
			for _, p := range msg.Parts {
				if tp, ok := p.(core.TextPart); ok && tp.Text != "" {
					content = append(content, anthropic.NewTextBlock(tp.Text))
				}
			}
			if len(content) > 0 {
				out = append(out, anthropic.NewUserMessage(content...))
			}
		case core.RoleAssistant:
			var content []anthropic.ContentBlockParamUnion
			for _, p := range msg.Parts {
				if tp, ok := p.(core.TextPart); ok && tp.Text != "" {
					content = append(content, anthropic.NewTextBlock(tp.Text))
				}
			}
			for _, call := range msg.ToolCalls {
				var input any = map[string]any{}
				if call.Arguments != nil {
					input = call.Arguments
				}
				content = append(content, anthropic.NewToolUseBlock(call.ID, input, call.Name))
			}
			if len(content) > 0 {
				out = append(out, anthropic.NewAssistantMessage(content...))
			}
		case core.RoleToolResult:
			var content []anthropic.ContentBlockParamUnion
			for _, res := range msg.ToolResults {
				content = append(content, anthropic.NewToolResultBlock(res.ToolCallID, stringify(res.Result), res.IsError))
			}
			if len(content) > 0 {
				out = append(out, anthropic.NewUserMessage(content...))
			}
		}
	}

	return out
}

// buildTools converts engine tool definitions to the Messages API format.
func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if def.Parameters != nil {
			if properties, ok := def.Parameters["properties"]; ok {
				inputSchema.Properties = properties
			}
			if required, ok := def.Parameters["required"]; ok {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					for _, r := range req {
						if s, ok := r.(string); ok {
							inputSchema.Required = append(inputSchema.Required, s)
						}
					}
				}
			}
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
	}
	return tools
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
