// app.go is the Bubble Tea model for the chat surface.
//
// Flow:
//  1. User types a question and presses Enter
//  2. The agent runs in a background tea.Cmd (UI stays responsive)
//  3. Tool activity and the final answer are appended to the transcript
//
// Key design decisions:
//   - Single chat view; the executed-SQL history is an overlay toggle
//   - The agent, database handle, and history are wired by cmd and
//     passed in; the TUI owns none of their lifecycles
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/askql/agent"
	"github.com/DachengChen/askql/db"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const appVersion = "0.1.0"

// turn is one entry in the chat transcript.
type turn struct {
	role  string // "user" or "assistant"
	text  string
	steps []agent.Step // tool activity behind an assistant turn
	isErr bool
}

// App is the root Bubble Tea model.
type App struct {
	agent   *agent.Agent
	history *db.History
	target  string

	viewport    *Viewport
	input       string
	turns       []turn
	loading     bool
	showHistory bool
	statusMsg   string
	width       int
	height      int
}

// NewApp creates the application model.
func NewApp(opts Options) *App {
	return &App{
		agent:    opts.Agent,
		history:  opts.History,
		target:   opts.Target,
		viewport: NewViewport(80, 20),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.viewport.SetContentLines(a.welcomeLines())
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// header(1) + prompt(1) + status(1) = 3 lines of chrome
		a.viewport.SetSize(msg.Width, msg.Height-3)
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case AgentResponseMsg:
		a.loading = false
		if msg.Err != nil {
			a.turns = append(a.turns, turn{
				role:  "assistant",
				text:  "Error: " + msg.Err.Error(),
				isErr: true,
			})
		} else {
			t := turn{
				role:  "assistant",
				text:  msg.Result.Answer,
				steps: msg.Result.Steps,
			}
			if msg.Result.Truncated {
				a.statusMsg = "tool budget exhausted"
			}
			a.turns = append(a.turns, t)
		}
		a.refresh()
		a.viewport.End()
		return a, nil

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit
	case "enter":
		return a, a.send()
	case "ctrl+l":
		a.turns = nil
		a.statusMsg = ""
		a.viewport.SetContentLines(a.welcomeLines())
		return a, nil
	case "ctrl+h":
		a.showHistory = !a.showHistory
		a.refresh()
		return a, nil
	case "ctrl+k":
		a.viewport.ScrollUp(1)
	case "ctrl+j":
		a.viewport.ScrollDown(1)
	case "pgup":
		a.viewport.PageUp()
	case "pgdown":
		a.viewport.PageDown()
	case "backspace":
		if len(a.input) > 0 {
			runes := []rune(a.input)
			a.input = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			a.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			a.input += " "
		}
	}
	return a, nil
}

// send dispatches the typed question to the agent asynchronously.
func (a *App) send() tea.Cmd {
	text := strings.TrimSpace(a.input)
	if text == "" || a.loading {
		return nil
	}

	a.turns = append(a.turns, turn{role: "user", text: text})
	a.input = ""
	a.loading = true
	a.statusMsg = ""
	a.refresh()
	a.viewport.End()

	ag := a.agent
	return func() tea.Msg {
		result, err := ag.Ask(context.Background(), text)
		return AgentResponseMsg{Result: result, Err: err}
	}
}

// refresh re-renders the transcript (or history overlay) into the viewport.
func (a *App) refresh() {
	if a.showHistory {
		a.viewport.SetContentLines(a.historyLines())
		return
	}
	a.viewport.SetContentLines(a.transcriptLines())
}

func (a *App) welcomeLines() []string {
	return []string{
		StyleTitle.Render("askql") + StyleDimmed.Render("  "+a.agent.ProviderName()+"  ·  "+a.target),
		"",
		"Ask questions about your database in any language:",
		"  • \"how many customers signed up last month?\"",
		"  • \"¿cuántos pedidos hay sin enviar?\"",
		"  • \"export all invoices from March to invoices.csv\"",
		"",
		StyleDimmed.Render("Type your question and press Enter."),
	}
}

func (a *App) transcriptLines() []string {
	lines := a.welcomeLines()[:1]
	lines = append(lines, "")

	userStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	assistantStyle := lipgloss.NewStyle().Foreground(ColorSuccess)

	for _, t := range a.turns {
		switch t.role {
		case "user":
			lines = append(lines, userStyle.Render("You: ")+t.text)
			lines = append(lines, "")
		case "assistant":
			for _, step := range t.steps {
				lines = append(lines, StyleDimmed.Render(
					fmt.Sprintf("  ⚙ %s %s", step.Tool, compact(step.Arguments, 60))))
			}
			header := assistantStyle.Render("AI: ")
			if t.isErr {
				header = StyleError.Render("AI: ")
			}
			lines = append(lines, header)
			for _, line := range strings.Split(t.text, "\n") {
				lines = append(lines, "  "+line)
			}
			lines = append(lines, "")
		}
	}

	if a.loading {
		lines = append(lines, StyleDimmed.Render("  ⏳ Thinking..."))
	}

	return lines
}

func (a *App) historyLines() []string {
	lines := []string{
		StyleTitle.Render("Executed SQL") + StyleDimmed.Render("  (Ctrl+H to return)"),
		"",
	}

	entries := a.history.Entries()
	if len(entries) == 0 {
		lines = append(lines, StyleDimmed.Render("No queries executed yet."))
		return lines
	}

	for i, e := range entries {
		status := StyleSuccess.Render("ok")
		if e.Status == db.HistoryError {
			status = StyleError.Render("error")
		}
		lines = append(lines, fmt.Sprintf("%2d. [%s] %s", i+1, status, compact(e.SQL, 0)))
		if e.Error != "" {
			lines = append(lines, StyleDimmed.Render("     "+e.Error))
		}
	}
	return lines
}

// View implements tea.Model.
func (a *App) View() string {
	header := StyleBold.Render("askql "+appVersion) + "  " +
		StyleStatusBar.Render(a.target)

	prompt := StylePrompt.Render("Ask> ") + a.input + "█"
	if a.loading {
		prompt = StylePrompt.Render("Ask> ") + StyleDimmed.Render("waiting for response...")
	}

	help := strings.Join([]string{
		StyleHelpKey.Render("Enter") + StyleHelpDesc.Render(" send"),
		StyleHelpKey.Render("Ctrl+H") + StyleHelpDesc.Render(" history"),
		StyleHelpKey.Render("Ctrl+L") + StyleHelpDesc.Render(" clear"),
		StyleHelpKey.Render("Ctrl+C") + StyleHelpDesc.Render(" quit"),
	}, "  ")
	status := help
	if a.statusMsg != "" {
		status = StyleWarning.Render(a.statusMsg) + "  " + help
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.viewport.Render(),
		prompt,
		status,
	)
}

// compact flattens whitespace and truncates for single-line display.
// maxLen 0 means no truncation.
func compact(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen-3] + "..."
	}
	return s
}
