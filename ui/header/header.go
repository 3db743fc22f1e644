package header

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const title = "gridmark"

// Model is the one-line title bar. The status shows the feed and the
// focused pane.
type Model struct {
	width  int
	status string
}

func New() Model {
	return Model{
		width: 80, // Default width, will be updated
	}
}

// SetStatus replaces the text shown after the title.
func (m *Model) SetStatus(status string) {
	m.status = status
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	text := title
	if m.status != "" {
		text += " · " + m.status
	}
	if r := []rune(text); m.width > 0 && len(r) > m.width {
		text = string(r[:m.width])
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("63")).
		Foreground(lipgloss.Color("255")).
		Width(m.width).
		Align(lipgloss.Center)

	return style.Render(text)
}
