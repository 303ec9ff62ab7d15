package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DachengChen/askql/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays a fixed sequence of replies and records
// the message history it was called with.
type scriptedProvider struct {
	replies []*ai.Message
	err     error
	calls   int
	seen    [][]ai.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Message, error) {
	snapshot := make([]ai.Message, len(messages))
	copy(snapshot, messages)
	p.seen = append(p.seen, snapshot)

	if p.err != nil {
		return nil, p.err
	}

	i := p.calls
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	p.calls++
	return p.replies[i], nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its arguments",
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return "echo: " + string(args), nil
		},
	}
}

func TestNewRequiresProvider(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestAskPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.Message{
		{Role: ai.RoleAssistant, Content: "There are 3 users."},
	}}
	ag, err := New(Options{Provider: provider})
	require.NoError(t, err)

	res, err := ag.Ask(context.Background(), "how many users are there?")
	require.NoError(t, err)

	assert.Equal(t, "There are 3 users.", res.Answer)
	assert.Empty(t, res.Steps)
	assert.False(t, res.Truncated)
	assert.NotEmpty(t, res.ID)
}

func TestAskToolCallThenAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.Message{
		{
			Role: ai.RoleAssistant,
			ToolCalls: []ai.ToolCall{
				{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{"x":1}`)},
			},
		},
		{Role: ai.RoleAssistant, Content: "done"},
	}}
	ag, err := New(Options{Provider: provider, Tools: []Tool{echoTool("echo")}})
	require.NoError(t, err)

	res, err := ag.Ask(context.Background(), "run the echo tool")
	require.NoError(t, err)

	assert.Equal(t, "done", res.Answer)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "echo", res.Steps[0].Tool)
	assert.Equal(t, `echo: {"x":1}`, res.Steps[0].Result)

	// The second Chat call must see the tool result wired to the call ID.
	require.Len(t, provider.seen, 2)
	second := provider.seen[1]
	last := second[len(second)-1]
	assert.Equal(t, ai.RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Equal(t, `echo: {"x":1}`, last.Content)
}

func TestAskInjectsSchemaContext(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.Message{
		{Role: ai.RoleAssistant, Content: "ok"},
	}}
	ag, err := New(Options{
		Provider:      provider,
		SchemaContext: "## Table: users\n- id INTEGER NOT NULL [PK]\n",
	})
	require.NoError(t, err)

	_, err = ag.Ask(context.Background(), "list users")
	require.NoError(t, err)

	require.Len(t, provider.seen, 1)
	first := provider.seen[0]
	require.Len(t, first, 2)
	assert.Equal(t, ai.RoleSystem, first[0].Role)
	assert.Contains(t, first[1].Content, "Database schema:")
	assert.Contains(t, first[1].Content, "## Table: users")
	assert.Contains(t, first[1].Content, "Question: list users")
}

func TestAskTruncatesAtToolBudget(t *testing.T) {
	// The model keeps asking for tools forever; the loop must stop.
	provider := &scriptedProvider{replies: []*ai.Message{
		{
			Role:    ai.RoleAssistant,
			Content: "still working",
			ToolCalls: []ai.ToolCall{
				{ID: "call_x", Name: "echo", Arguments: json.RawMessage(`{}`)},
			},
		},
	}}
	ag, err := New(Options{
		Provider:     provider,
		Tools:        []Tool{echoTool("echo")},
		MaxToolCalls: 3,
	})
	require.NoError(t, err)

	res, err := ag.Ask(context.Background(), "loop forever")
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Len(t, res.Steps, 3)
	assert.Contains(t, res.Answer, "still working")
	assert.Contains(t, res.Answer, truncationNotice)
}

func TestAskUnknownToolFoldsIntoResult(t *testing.T) {
	provider := &scriptedProvider{replies: []*ai.Message{
		{
			Role: ai.RoleAssistant,
			ToolCalls: []ai.ToolCall{
				{ID: "call_1", Name: "bogus", Arguments: json.RawMessage(`{}`)},
			},
		},
		{Role: ai.RoleAssistant, Content: "recovered"},
	}}
	ag, err := New(Options{Provider: provider, Tools: []Tool{echoTool("echo")}})
	require.NoError(t, err)

	res, err := ag.Ask(context.Background(), "call a tool that does not exist")
	require.NoError(t, err)

	assert.Equal(t, "recovered", res.Answer)
	require.Len(t, res.Steps, 1)
	assert.Contains(t, res.Steps[0].Result, `unknown tool "bogus"`)
	assert.Contains(t, res.Steps[0].Result, "echo")
}

func TestAskHandlerErrorFoldsIntoResult(t *testing.T) {
	failing := Tool{
		Name: "broken",
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return "", errors.New("disk on fire")
		},
	}
	provider := &scriptedProvider{replies: []*ai.Message{
		{
			Role: ai.RoleAssistant,
			ToolCalls: []ai.ToolCall{
				{ID: "call_1", Name: "broken", Arguments: json.RawMessage(`{}`)},
			},
		},
		{Role: ai.RoleAssistant, Content: "noted"},
	}}
	ag, err := New(Options{Provider: provider, Tools: []Tool{failing}})
	require.NoError(t, err)

	res, err := ag.Ask(context.Background(), "break something")
	require.NoError(t, err)

	require.Len(t, res.Steps, 1)
	assert.Equal(t, "tool error: disk on fire", res.Steps[0].Result)
	assert.Equal(t, "noted", res.Answer)
}

func TestAskProviderErrorAbortsRun(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	ag, err := New(Options{Provider: provider})
	require.NoError(t, err)

	_, err = ag.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
