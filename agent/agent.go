// Package agent implements the bounded tool-calling loop that wires an
// AI provider to the database tools.
//
// Design decisions:
//   - The loop is sequential and single-owner: one Ask at a time per
//     agent, no concurrency around the database handle.
//   - At most maxToolCalls tool invocations per question; when the
//     budget runs out the loop stops instead of spinning.
//   - All model turns and tool invocations are logged to the ai log.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DachengChen/askql/ai"
	"github.com/DachengChen/askql/applog"
	"github.com/google/uuid"
)

// defaultMaxToolCalls bounds the tool invocations per question.
const defaultMaxToolCalls = 7

// truncationNotice is appended to the answer when the budget runs out.
const truncationNotice = "(stopped: tool call budget exhausted before the agent finished)"

// Options configure a new Agent.
type Options struct {
	Provider ai.Provider

	// Tools are registered in order; registration errors fail New.
	Tools []Tool

	// SchemaContext is the initial database schema text injected into
	// the first user turn so the model can plan without a tool call.
	SchemaContext string

	// SystemPrompt overrides the default policy prompt (tests only).
	SystemPrompt string

	// MaxToolCalls overrides the default budget of 7.
	MaxToolCalls int
}

// Agent orchestrates model calls and tool dispatch.
type Agent struct {
	provider      ai.Provider
	registry      *Registry
	systemPrompt  string
	schemaContext string
	maxToolCalls  int
}

// Step records one tool invocation made during a run.
type Step struct {
	Tool      string
	Arguments string
	Result    string
	Duration  time.Duration
}

// RunResult is the outcome of one Ask.
type RunResult struct {
	ID        string
	Answer    string
	Steps     []Step
	Truncated bool // true when the tool budget ran out
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Provider == nil {
		return nil, errors.New("agent requires an AI provider")
	}

	registry := NewRegistry()
	for _, t := range opts.Tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("register tool: %w", err)
		}
	}

	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = systemPromptAgent
	}

	maxToolCalls := opts.MaxToolCalls
	if maxToolCalls <= 0 {
		maxToolCalls = defaultMaxToolCalls
	}

	return &Agent{
		provider:      opts.Provider,
		registry:      registry,
		systemPrompt:  systemPrompt,
		schemaContext: opts.SchemaContext,
		maxToolCalls:  maxToolCalls,
	}, nil
}

// ProviderName reports the configured provider, for display.
func (a *Agent) ProviderName() string {
	return a.provider.Name()
}

// Ask runs the bounded loop for one natural-language question.
func (a *Agent) Ask(ctx context.Context, question string) (*RunResult, error) {
	run := &RunResult{ID: uuid.NewString()}
	applog.Event("AGENT", "run %s start: %q", run.ID, question)

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: a.systemPrompt},
		{Role: ai.RoleUser, Content: a.buildFirstTurn(question)},
	}
	defs := a.registry.Definitions()

	toolCalls := 0
	for {
		ai.LogAIRequest("Chat", a.provider.Name(), map[string]string{
			"Run":   run.ID,
			"Turns": fmt.Sprintf("%d messages, %d tool calls so far", len(messages), toolCalls),
		})

		reply, err := a.provider.Chat(ctx, messages, defs)
		ai.LogAIResponse("Chat", replySummary(reply), err)
		if err != nil {
			applog.Error("run %s: provider: %v", run.ID, err)
			return nil, fmt.Errorf("provider: %w", err)
		}

		messages = append(messages, *reply)

		// A plain assistant reply ends the run.
		if len(reply.ToolCalls) == 0 {
			run.Answer = reply.Content
			applog.Event("AGENT", "run %s done: %d tool calls", run.ID, toolCalls)
			return run, nil
		}

		for _, tc := range reply.ToolCalls {
			if toolCalls >= a.maxToolCalls {
				run.Truncated = true
				run.Answer = a.truncatedAnswer(reply)
				applog.Event("AGENT", "run %s truncated at %d tool calls", run.ID, toolCalls)
				return run, nil
			}
			toolCalls++

			result := a.dispatch(ctx, run, tc)
			messages = append(messages, ai.Message{
				Role:       ai.RoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}
}

// dispatch runs a single tool call and records the step. Tool-level
// failures become result text the model can read; they never abort
// the run.
func (a *Agent) dispatch(ctx context.Context, run *RunResult, tc ai.ToolCall) string {
	start := time.Now()

	var result string
	tool, ok := a.registry.Get(tc.Name)
	if !ok {
		result = fmt.Sprintf("unknown tool %q; available tools: %v", tc.Name, a.registry.Names())
	} else {
		var err error
		result, err = tool.Handler(ctx, tc.Arguments)
		if err != nil {
			result = "tool error: " + err.Error()
		}
		ai.LogToolCall(tc.Name, string(tc.Arguments), result, err)
	}

	run.Steps = append(run.Steps, Step{
		Tool:      tc.Name,
		Arguments: string(tc.Arguments),
		Result:    result,
		Duration:  time.Since(start),
	})
	return result
}

// buildFirstTurn injects the initial schema context into the question,
// so the model can plan without spending a tool call on get_schema.
func (a *Agent) buildFirstTurn(question string) string {
	if a.schemaContext == "" {
		return question
	}
	return fmt.Sprintf("Database schema:\n%s\n\nQuestion: %s", a.schemaContext, question)
}

// truncatedAnswer salvages whatever text the model produced alongside
// the tool calls it didn't get to run.
func (a *Agent) truncatedAnswer(last *ai.Message) string {
	if last.Content != "" {
		return last.Content + "\n\n" + truncationNotice
	}
	return truncationNotice
}

// replySummary renders a reply for the ai log.
func replySummary(m *ai.Message) string {
	if m == nil {
		return "(nil)"
	}
	s := m.Content
	for _, tc := range m.ToolCalls {
		s += fmt.Sprintf("\n[tool call] %s(%s)", tc.Name, string(tc.Arguments))
	}
	return s
}
