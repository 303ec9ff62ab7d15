package tui

import (
	"github.com/DachengChen/askql/agent"
	"github.com/DachengChen/askql/db"
	tea "github.com/charmbracelet/bubbletea"
)

// Options carry the wired application pieces into the TUI.
type Options struct {
	Agent   *agent.Agent
	History *db.History
	Target  string // display name of the connected database
}

// Run launches the chat TUI with an already-wired agent.
func Run(opts Options) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
