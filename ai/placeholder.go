package ai

import (
	"context"
	"fmt"
	"time"
)

// Placeholder is a mock AI provider for development. It never calls
// tools; it echoes the question back with setup instructions.
type Placeholder struct{}

var _ Provider = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error) {
	// Simulate network latency
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			last = messages[i].Content
			break
		}
	}

	content := fmt.Sprintf("🤖 [Placeholder AI]\n\nYou asked: %q\n\nThis is a placeholder response. "+
		"Configure a real AI provider (OpenAI, Anthropic, Ollama) to get actual answers.\n\n"+
		"Once configured, I can:\n"+
		"  • Inspect the database schema\n"+
		"  • Translate questions into SQL and run it\n"+
		"  • Export results to CSV", last)

	return &Message{Role: RoleAssistant, Content: content}, nil
}
