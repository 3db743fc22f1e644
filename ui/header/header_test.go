package header

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestView(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 1})

	if out := m.View(); !strings.Contains(out, "gridmark") {
		t.Errorf("title missing: %q", out)
	}

	m.SetStatus("feed: KISS · editor")
	out := m.View()
	if !strings.Contains(out, "feed: KISS") {
		t.Errorf("status missing: %q", out)
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("width = %d, want 60", w)
	}
}

func TestViewNarrow(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 1})
	m.SetStatus("a very long status line")

	if out := m.View(); strings.Contains(out, "\n") {
		t.Errorf("header wrapped: %q", out)
	}
}
