package model

import (
	"context"

	"github.com/inferloop/inferloop/core"
)

// Capabilities declares the optional features a bound model supports. The
// engine validates requested features against this descriptor at setup time,
// before any model call.
type Capabilities struct {
	Streaming        bool `json:"streaming"`
	Tools            bool `json:"tools"`
	StructuredOutput bool `json:"structured_output"`
	ImageInput       bool `json:"image_input"`
	DocumentInput    bool `json:"document_input"`
	AudioInput       bool `json:"audio_input"`
	VideoInput       bool `json:"video_input"`
}

// SupportsMedia reports whether the given media input kind is accepted.
func (c Capabilities) SupportsMedia(kind core.MediaKind) bool {
	switch kind {
	case core.MediaImage:
		return c.ImageInput
	case core.MediaAudio:
		return c.AudioInput
	case core.MediaVideo:
		return c.VideoInput
	case core.MediaDocument:
		return c.DocumentInput
	default:
		return false
	}
}

// Info contains metadata about a model implementation. Provider is used for
// diagnostics only.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Params are common generation parameters passed through to the provider.
// Nil pointer fields mean provider defaults.
type Params struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"`
	MaxTokens     *int64   `json:"max_tokens,omitempty"`
	StopSequences []string `json:"stop_sequences,omitempty"`
}

// Config is arbitrary provider-specific pass-through configuration plus
// headers merged into outbound requests. Validated for shape only, never for
// semantic correctness.
type Config struct {
	Provider map[string]any    `json:"provider,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Request is the normalized model input produced by the orchestrator.
type Request struct {
	Messages []core.Message   `json:"messages"`
	System   string           `json:"system,omitempty"`
	Params   *Params          `json:"params,omitempty"`
	Tools    []ToolDefinition `json:"tools,omitempty"`

	// Structure is a JSON schema requesting structured output.
	Structure map[string]any `json:"structure,omitempty"`

	Config Config `json:"config,omitempty"`
}

// Response is the final outcome of one model call.
type Response struct {
	Message    core.Message    `json:"message"`
	Usage      core.TokenUsage `json:"usage"`
	StopReason string          `json:"stop_reason,omitempty"`

	// Data is the structured output payload, when the model produced one.
	Data map[string]any `json:"data,omitempty"`
}

// Stream is a single streaming model call in flight. Events is closed when
// the call terminates; afterwards exactly one of Response or Errs yields.
// The final response is only obtainable once Events has been fully drained.
type Stream struct {
	Events   <-chan core.StreamEvent
	Response <-chan *Response // buffered, capacity 1
	Errs     <-chan error     // buffered, capacity 1
}

// Model is the bound-model interface the orchestration engine drives.
// Implementations must respect context cancellation on both entry points.
type Model interface {
	// Complete issues one blocking model call.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream issues one streaming model call. Implementations that report
	// Capabilities().Streaming == false may return an error unconditionally;
	// the engine's capability gate rejects such requests beforehand.
	Stream(ctx context.Context, req Request) (*Stream, error)

	// Capabilities returns the static capability descriptor.
	Capabilities() Capabilities

	// Info returns metadata about the model implementation.
	Info() Info
}
