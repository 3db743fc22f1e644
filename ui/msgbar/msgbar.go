package msgbar

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridmark/packet"
)

const (
	barHeight = 7 // Total height of the component (including border)

	// ToastTimeout is how long a new notification stays highlighted.
	ToastTimeout = 3 * time.Second
)

// toastExpiredMsg ends the highlight of notification id.
type toastExpiredMsg struct{ id int }

// Model shows detection summaries and feed traffic, newest at the bottom.
type Model struct {
	width    int
	height   int
	messages []string
	toastID  int  // id of the newest notification
	toasting bool // newest notification still highlighted
}

func New() Model {
	return Model{
		width:  80,
		height: barHeight,
	}
}

// Height is the fixed height of the bar.
func (m Model) Height() int { return barHeight }

func (m Model) Init() tea.Cmd {
	return nil
}

// Notify adds line and highlights it until ToastTimeout passes or another
// notification replaces it.
func (m *Model) Notify(line string) tea.Cmd {
	m.push(line)
	m.toastID++
	m.toasting = true
	id := m.toastID
	return tea.Tick(ToastTimeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// push appends line to the history, keeping what fits.
func (m *Model) push(line string) {
	m.messages = append(m.messages, line)
	if keep := barHeight - 2; len(m.messages) > keep {
		m.messages = m.messages[len(m.messages)-keep:]
	}
}

// Toasting reports whether the newest notification is still highlighted.
func (m Model) Toasting() bool { return m.toasting }

// Lines returns the history, oldest first.
func (m Model) Lines() []string { return m.messages }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = barHeight

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toasting = false
		}

	case *packet.Packet:
		// Feed traffic goes to history without a toast.
		m.push(msg.String())
	}
	return m, nil
}

var toastStyle = lipgloss.NewStyle().
	Bold(true).
	Background(lipgloss.Color("63")).
	Foreground(lipgloss.Color("255"))

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	contentWidth := max(m.width-2-2, 0)
	lines := make([]string, 0, len(m.messages))
	for i, line := range m.messages {
		if r := []rune(line); len(r) > contentWidth {
			line = string(r[:contentWidth])
		}
		if m.toasting && i == len(m.messages)-1 {
			line = toastStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return style.Render(strings.Join(lines, "\n"))
}
