package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/inferloop/inferloop/core"
)

// MockResponse is one scripted model-call outcome for MockModel. When Err is
// set the call fails; otherwise Response is returned after Events (streaming
// only) have been emitted.
type MockResponse struct {
	Response *Response
	Events   []core.StreamEvent
	Err      error
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Calls consume scripted responses in order; running past the script yields
// a canned text response.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	caps     Capabilities
	script   []MockResponse
	calls    int
	requests []Request
}

// NewMockModel constructs a MockModel with every capability enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: "mock"},
		caps: Capabilities{
			Streaming:        true,
			Tools:            true,
			StructuredOutput: true,
			ImageInput:       true,
			DocumentInput:    true,
			AudioInput:       true,
			VideoInput:       true,
		},
	}
}

// SetCapabilities overrides the capability descriptor.
func (m *MockModel) SetCapabilities(caps Capabilities) { m.caps = caps }

// Enqueue appends scripted responses consumed by subsequent calls.
func (m *MockModel) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// EnqueueText appends a plain text response.
func (m *MockModel) EnqueueText(text string, usage core.TokenUsage) {
	m.Enqueue(MockResponse{Response: &Response{
		Message:    core.NewAssistantMessage([]core.Part{core.TextPart{Text: text}}, nil),
		Usage:      usage,
		StopReason: "end_turn",
	}})
}

// EnqueueToolCalls appends a response requesting the given tool calls.
func (m *MockModel) EnqueueToolCalls(usage core.TokenUsage, calls ...core.ToolCall) {
	m.Enqueue(MockResponse{Response: &Response{
		Message:    core.NewAssistantMessage(nil, calls),
		Usage:      usage,
		StopReason: "tool_use",
	}})
}

// Calls returns the number of model calls issued so far.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns the recorded requests in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockModel) next(req Request) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	idx := m.calls
	m.calls++
	if idx < len(m.script) {
		return m.script[idx]
	}
	return MockResponse{Response: &Response{
		Message:    core.NewAssistantMessage([]core.Part{core.TextPart{Text: fmt.Sprintf("mock response %d", idx+1)}}, nil),
		StopReason: "end_turn",
	}}
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scripted := m.next(req)
	if scripted.Err != nil {
		return nil, scripted.Err
	}
	return scripted.Response, nil
}

// Stream implements Model; scripted events are emitted in order before the
// final response is delivered.
func (m *MockModel) Stream(ctx context.Context, req Request) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scripted := m.next(req)

	events := make(chan core.StreamEvent)
	respCh := make(chan *Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)
		for _, ev := range scripted.Events {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case events <- ev:
			}
		}
		if scripted.Err != nil {
			errCh <- scripted.Err
			return
		}
		respCh <- scripted.Response
	}()

	return &Stream{Events: events, Response: respCh, Errs: errCh}, nil
}

// Capabilities implements Model.
func (m *MockModel) Capabilities() Capabilities { return m.caps }

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
