// registry.go holds the tool registry the agent dispatches against.
//
// Small by intent: tools are plain structs with a handler function, and
// the registry preserves registration order so providers always see the
// tool list in a stable order.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DachengChen/askql/ai"
)

// Registry errors.
var (
	ErrEmptyName    = errors.New("tool name cannot be empty")
	ErrNoHandler    = errors.New("tool has no handler")
	ErrToolExists   = errors.New("tool already registered")
	ErrToolNotFound = errors.New("tool not found")
)

// Handler is the function signature for tool execution. The string
// result is what the model sees; err is reserved for failures the
// handler chooses not to fold into the result text.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a named capability the agent can invoke.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema for the arguments object
	Handler     Handler
}

// Definition converts the tool into the provider-facing form.
func (t Tool) Definition() ai.ToolDefinition {
	params := t.Parameters
	if len(params) == 0 {
		params = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return ai.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}

// Registry stores tools by name, preserving registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names are an error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return ErrEmptyName
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, t.Name)
	}
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrToolExists, t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns provider-facing definitions in registration order.
func (r *Registry) Definitions() []ai.ToolDefinition {
	defs := make([]ai.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}
