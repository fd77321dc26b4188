package tool

import (
	"errors"
	"fmt"
)

// ErrDuplicateTool signals two registered tools sharing one name. Dispatch
// is by name, so a collision would silently shadow one of them.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Registry is the lookup table used during tool dispatch. It preserves
// registration order for definition listings and rejects duplicate names at
// construction time. A Registry is immutable after construction.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry from the given tools, failing on duplicate
// or empty names.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
