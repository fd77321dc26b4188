package run

import (
	"context"
	"errors"
	"fmt"

	"github.com/inferloop/inferloop/core"
)

// ErrCancelled is the cancellation-kind error every suspension point raises
// once an invocation's cancellation has been requested. It is also the error
// a stream's deferred outcome settles with when event production stops
// abruptly without a pending reason.
var ErrCancelled = errors.New("run cancelled")

// IsCancelled reports whether err is a cancellation-kind error, covering
// both engine-level cancellation and raw context cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// CapabilityError is raised at setup time, before any model call, when the
// bound model does not support a requested feature.
type CapabilityError struct {
	Provider   string
	Model      string
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model %s (%s) does not support %s", e.Model, e.Provider, e.Capability)
}

// MediaError is raised at setup time when the message history contains a
// media kind the bound model cannot accept.
type MediaError struct {
	Kind      core.MediaKind
	MessageID string
	Model     string
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("model %s does not accept %s input (message %s)", e.Model, e.Kind, e.MessageID)
}

// MaxIterationsError is raised by the orchestrator when the model keeps
// requesting tool calls past the configured iteration ceiling.
type MaxIterationsError struct {
	Limit int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("tool use did not settle within %d iterations", e.Limit)
}
