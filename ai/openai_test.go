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

func TestOpenAIChatPlainReply(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"hello there"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "gpt-4o-mini")
	p.baseURL = srv.URL

	reply, err := p.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "hello there", reply.Content)
	assert.Empty(t, reply.ToolCalls)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, float64(4000), gotBody["max_tokens"])
	assert.Nil(t, gotBody["tools"])
}

func TestOpenAIChatToolCalls(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{
			"content":"",
			"tool_calls":[{"id":"call_abc","type":"function","function":{
				"name":"execute_sql",
				"arguments":"{\"query\":\"SELECT 1\"}"
			}}]
		}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "")
	p.baseURL = srv.URL

	tools := []ToolDefinition{{
		Name:        "execute_sql",
		Description: "run sql",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}}}`),
	}}
	reply, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "count users"}}, tools)
	require.NoError(t, err)

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "call_abc", reply.ToolCalls[0].ID)
	assert.Equal(t, "execute_sql", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"SELECT 1"}`, string(reply.ToolCalls[0].Arguments))

	// Tool definitions must go out in function-calling format.
	sent, ok := gotBody["tools"].([]interface{})
	require.True(t, ok)
	require.Len(t, sent, 1)
	fn := sent[0].(map[string]interface{})
	assert.Equal(t, "function", fn["type"])
	assert.Equal(t, "execute_sql", fn["function"].(map[string]interface{})["name"])
}

func TestOpenAIChatSendsToolResults(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Role       string `json:"role"`
			Content    string `json:"content"`
			ToolCallID string `json:"tool_call_id"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"choices":[{"message":{"content":"3 users"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "")
	p.baseURL = srv.URL

	_, err := p.Chat(context.Background(), []Message{
		{Role: RoleUser, Content: "count users"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "call_1", Name: "execute_sql", Arguments: json.RawMessage(`{"query":"SELECT count(*) FROM users"}`)},
		}},
		{Role: RoleTool, Content: "count\n3\n(1 row)", ToolCallID: "call_1"},
	}, nil)
	require.NoError(t, err)

	require.Len(t, gotBody.Messages, 3)
	assert.Equal(t, "tool", gotBody.Messages[2].Role)
	assert.Equal(t, "call_1", gotBody.Messages[2].ToolCallID)
}

func TestOpenAIChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	p := NewOpenAI("wrong", "")
	p.baseURL = srv.URL

	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestOpenAIDefaultModel(t *testing.T) {
	p := NewOpenAI("k", "")
	assert.Equal(t, "OpenAI (gpt-4o-mini)", p.Name())
}
