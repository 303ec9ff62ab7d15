package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicChatSystemAndToolResult(t *testing.T) {
	var gotBody struct {
		System   string `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type      string `json:"type"`
				Text      string `json:"text"`
				ToolUseID string `json:"tool_use_id"`
				Content   string `json:"content"`
			} `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		io.WriteString(w, `{"content":[{"type":"text","text":"3 users"}]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "claude-sonnet-4-20250514")
	p.baseURL = srv.URL

	reply, err := p.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "you are a sql assistant"},
		{Role: RoleUser, Content: "count users"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "toolu_1", Name: "execute_sql", Arguments: json.RawMessage(`{"query":"SELECT count(*) FROM users"}`)},
		}},
		{Role: RoleTool, Content: "count\n3\n(1 row)", ToolCallID: "toolu_1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "3 users", reply.Content)

	// System prompt travels as a top-level field, not a message.
	assert.Equal(t, "you are a sql assistant", gotBody.System)
	require.Len(t, gotBody.Messages, 3)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "assistant", gotBody.Messages[1].Role)

	// Tool results become tool_result blocks in a user message.
	result := gotBody.Messages[2]
	assert.Equal(t, "user", result.Role)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "tool_result", result.Content[0].Type)
	assert.Equal(t, "toolu_1", result.Content[0].ToolUseID)
	assert.Equal(t, "count\n3\n(1 row)", result.Content[0].Content)
}

func TestAnthropicChatParsesToolUse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":[
			{"type":"text","text":"Let me check."},
			{"type":"tool_use","id":"toolu_2","name":"get_schema","input":{"table_name":"users"}}
		]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	reply, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "what columns do users have?"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Let me check.", reply.Content)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "toolu_2", reply.ToolCalls[0].ID)
	assert.Equal(t, "get_schema", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"table_name":"users"}`, string(reply.ToolCalls[0].Arguments))
}

func TestAnthropicChatSendsInputSchema(t *testing.T) {
	var gotBody struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"input_schema"`
		} `json:"tools"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	schema := `{"type":"object","properties":{"query":{"type":"string"}}}`
	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, []ToolDefinition{
		{Name: "execute_sql", Description: "run sql", Parameters: json.RawMessage(schema)},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Tools, 1)
	assert.Equal(t, "execute_sql", gotBody.Tools[0].Name)
	assert.JSONEq(t, schema, string(gotBody.Tools[0].InputSchema))
}

func TestAnthropicChatEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":[]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil)
	assert.Error(t, err)
}
