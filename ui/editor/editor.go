package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridmark/coords"
)

const (
	placeholder = "Paste text with coordinates (MGRS, decimal, SK-42). ctrl+s applies, ctrl+t hides this pane."

	collapsedHeight = 3
	minInputHeight  = 3
)

// ApplyMsg asks for Text to be run through the detector.
type ApplyMsg struct {
	Text string
}

// Model is the input pane: a textarea with the annotated result of the
// last apply shown beneath it.
type Model struct {
	width     int
	height    int
	ta        textarea.Model
	preview   string
	collapsed bool
}

func New() Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(76)
	ta.SetHeight(minInputHeight)

	return Model{
		width:  80,
		height: 12,
		ta:     ta,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Focus gives the textarea the cursor.
func (m *Model) Focus() tea.Cmd {
	return m.ta.Focus()
}

func (m *Model) Blur() {
	m.ta.Blur()
}

func (m Model) Focused() bool {
	return m.ta.Focused()
}

func (m Model) Collapsed() bool {
	return m.collapsed
}

// Value is the raw text typed or received so far.
func (m Model) Value() string {
	return m.ta.Value()
}

// AppendLine adds line at the end of the input on a line of its own.
func (m *Model) AppendLine(line string) {
	v := m.ta.Value()
	if v != "" && !strings.HasSuffix(v, "\n") {
		v += "\n"
	}
	m.ta.SetValue(v + line)
}

// SetPreview replaces the annotated text shown under the input.
func (m *Model) SetPreview(annotated string) {
	m.preview = annotated
}

// Height is the number of rows the pane takes, borders included.
func (m Model) Height() int {
	if m.collapsed {
		return collapsedHeight
	}
	return m.height
}

func (m *Model) resize() {
	inner := max(m.width-4, 1)
	m.ta.SetWidth(inner)
	// Half the pane goes to the input, the rest to the preview.
	m.ta.SetHeight(max((m.height-2)/2, minInputHeight))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			text := m.ta.Value()
			return m, func() tea.Msg { return ApplyMsg{Text: text} }
		case "ctrl+t":
			m.collapsed = !m.collapsed
			return m, nil
		}
		if m.collapsed {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// Highlight renders a point for the terminal: its canonical text on a
// background of its color.
func Highlight(p coords.Point) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(p.Color)).
		Foreground(lipgloss.Color("0")).
		Render(p.Canonical)
}

var (
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	previewStyle = lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Padding(0, 1)

	if m.collapsed {
		return style.Height(collapsedHeight - 2).
			Render(hintStyle.Render("editor hidden, ctrl+t to show"))
	}

	input := m.ta.View()
	room := m.height - 2 - lipgloss.Height(input) - 1
	var preview string
	if room > 0 && m.preview != "" {
		lines := strings.Split(m.preview, "\n")
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
		preview = previewStyle.Width(max(m.width-4, 0)).Render(strings.Join(lines, "\n"))
	}

	body := input
	if preview != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, input, preview)
	}
	return style.Height(m.height - 2).MaxHeight(m.height).Render(body)
}
