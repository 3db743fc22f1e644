package sidebar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridmark/coords"
)

// Model lists the points of the last apply.
type Model struct {
	width  int
	height int
	points []coords.Point
}

func New() Model {
	return Model{
		width:  20,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetPoints replaces the list.
func (m *Model) SetPoints(points []coords.Point) {
	m.points = append(m.points[:0], points...)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// entry renders one point as two lines: swatch, ordinal, kind and the text
// as written, then the position.
func entry(p coords.Point, width int) (string, string) {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■")
	head := truncate(fmt.Sprintf("#%d %s %s", p.Ordinal, p.Kind.Short(), p.Original), width-2)
	pos := truncate(fmt.Sprintf("  %.5f, %.5f", p.Lat, p.Lon), width)
	return swatch + " " + head, pos
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	inner := m.width - 2 - 2
	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(inner).
		Render(fmt.Sprintf("Points (%d)", len(m.points)))

	lines := []string{header}
	room := m.height - 2
	for _, p := range m.points {
		if len(lines)+2 > room {
			if more := len(m.points) - (len(lines)-1)/2; more > 0 && len(lines) < room {
				lines = append(lines, fmt.Sprintf("+%d more", more))
			}
			break
		}
		head, pos := entry(p, inner)
		lines = append(lines, head, pos)
	}

	// The box must not grow past its height.
	if len(lines) > room {
		lines = lines[:max(room, 0)]
	}
	return style.Render(strings.Join(lines, "\n"))
}
