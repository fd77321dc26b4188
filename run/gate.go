package run

import (
	"github.com/inferloop/inferloop/core"
	"github.com/inferloop/inferloop/model"
)

// checkCapabilities validates, before any model call, that the bound model
// supports every feature this invocation requests. Pure validation, no
// state.
func checkCapabilities(m model.Model, wantStreaming, wantTools, wantStructure bool) error {
	caps := m.Capabilities()
	info := m.Info()

	capErr := func(capability string) error {
		return &CapabilityError{Provider: info.Provider, Model: info.Name, Capability: capability}
	}

	if wantStreaming && !caps.Streaming {
		return capErr("streaming")
	}
	if wantTools && !caps.Tools {
		return capErr("tool calling")
	}
	if wantStructure && !caps.StructuredOutput {
		return capErr("structured output")
	}

	return nil
}

// checkMedia scans the message history and rejects content kinds the bound
// model cannot accept.
func checkMedia(m model.Model, msgs []core.Message) error {
	caps := m.Capabilities()
	info := m.Info()

	for _, msg := range msgs {
		for _, part := range msg.Parts {
			mp, ok := part.(core.MediaPart)
			if !ok {
				continue
			}
			if !caps.SupportsMedia(mp.Kind) {
				return &MediaError{Kind: mp.Kind, MessageID: msg.ID, Model: info.Name}
			}
		}
	}

	return nil
}
