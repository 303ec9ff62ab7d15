// messages.go defines Bubble Tea messages used for async communication.
//
// Agent runs happen in a tea.Cmd goroutine and send results back to
// the TUI via these message types, so the UI never blocks.
package tui

import (
	"github.com/DachengChen/askql/agent"
)

// AgentResponseMsg is sent when an agent run completes.
type AgentResponseMsg struct {
	Result *agent.RunResult
	Err    error
}

// StatusMsg is a transient status message for the status bar.
type StatusMsg string
