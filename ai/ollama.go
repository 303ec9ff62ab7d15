package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Ollama implements the Provider interface for local Ollama instances.
// Recent Ollama versions accept the OpenAI-style tools field on /api/chat.
type Ollama struct {
	host  string
	model string
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates an Ollama provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &Ollama{host: host, model: model}
}

func (o *Ollama) Name() string {
	return fmt.Sprintf("Ollama (%s)", o.model)
}

// Chat sends the conversation and tool definitions.
func (o *Ollama) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error) {
	type functionCall struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	type toolCall struct {
		Function functionCall `json:"function"`
	}
	type chatMsg struct {
		Role      string     `json:"role"`
		Content   string     `json:"content"`
		ToolCalls []toolCall `json:"tool_calls,omitempty"`
	}

	apiMsgs := make([]chatMsg, 0, len(messages))
	for _, m := range messages {
		msg := chatMsg{Role: m.Role, Content: m.Content}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, toolCall{
				Function: functionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		apiMsgs = append(apiMsgs, msg)
	}

	body := map[string]interface{}{
		"model":    o.model,
		"messages": apiMsgs,
		"stream":   false,
	}

	if len(tools) > 0 {
		type functionDef struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			Parameters  json.RawMessage `json:"parameters"`
		}
		type apiTool struct {
			Type     string      `json:"type"`
			Function functionDef `json:"function"`
		}
		apiTools := make([]apiTool, 0, len(tools))
		for _, t := range tools {
			apiTools = append(apiTools, apiTool{
				Type: "function",
				Function: functionDef{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		body["tools"] = apiTools
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := o.host + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed (is Ollama running at %s?): %w", o.host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string          `json:"name"`
					Arguments json.RawMessage `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("ollama parse error: %w", err)
	}

	out := &Message{Role: RoleAssistant, Content: result.Message.Content}
	for i, tc := range result.Message.ToolCalls {
		// Ollama doesn't assign tool call ids; synthesize stable ones.
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        fmt.Sprintf("call_%d", i),
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	if out.Content == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("ollama returned empty response")
	}

	return out, nil
}
