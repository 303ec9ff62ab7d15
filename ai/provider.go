// Package ai defines the interface for AI providers with tool calling,
// and a placeholder implementation.
//
// Design decisions:
//   - Provider is an interface so we can swap backends (OpenAI, Anthropic,
//     Ollama) without changing agent code.
//   - All methods accept context for cancellation.
//   - Tool definitions and tool calls use provider-agnostic types; each
//     backend translates to its own wire format.
package ai

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema for the arguments object
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Message represents a chat message.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // set on assistant messages requesting tools
	ToolCallID string     // set when Role == RoleTool, correlates the result
}

// Provider is the interface all AI backends must implement.
type Provider interface {
	// Chat sends a conversation plus tool definitions and returns the
	// assistant's reply, which may contain tool calls.
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error)

	// Name returns the provider name for display.
	Name() string
}
