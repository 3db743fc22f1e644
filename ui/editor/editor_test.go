package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gridmark/coords"
)

func TestApply(t *testing.T) {
	m := New()
	m.AppendLine("50.4472, 30.5233")
	m.AppendLine("x5320000 y7411000")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s returned no command")
	}
	msg, ok := cmd().(ApplyMsg)
	if !ok {
		t.Fatalf("ctrl+s produced %T", cmd())
	}
	if want := "50.4472, 30.5233\nx5320000 y7411000"; msg.Text != want {
		t.Errorf("apply text = %q, want %q", msg.Text, want)
	}
}

func TestTyping(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Value() != "" {
		t.Errorf("blurred editor took input: %q", m.Value())
	}

	m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42")})
	if m.Value() != "42" {
		t.Errorf("value = %q, want 42", m.Value())
	}
	m.Blur()
	if m.Focused() {
		t.Error("still focused after Blur")
	}
}

func TestCollapse(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 14})
	if m.Height() != 14 {
		t.Fatalf("height = %d", m.Height())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.Collapsed() || m.Height() != collapsedHeight {
		t.Errorf("collapsed %v height %d", m.Collapsed(), m.Height())
	}
	if out := m.View(); !strings.Contains(out, "editor hidden") {
		t.Errorf("collapsed view:\n%s", out)
	}

	// Input is ignored while hidden.
	m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Value() != "" {
		t.Errorf("hidden editor took input: %q", m.Value())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.Collapsed() {
		t.Error("ctrl+t did not expand")
	}
}

func TestPreview(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 14})

	res := coords.New(coords.WithHighlighter(Highlight)).Detect("target 50.4472 30.5233")
	m.SetPreview(res.Annotated)

	out := m.View()
	if !strings.Contains(out, "50.447200, 30.523300") {
		t.Errorf("preview missing canonical text:\n%s", out)
	}
	if n := len(strings.Split(out, "\n")); n != 14 {
		t.Errorf("view is %d lines, want 14", n)
	}
}

func TestHighlight(t *testing.T) {
	p := coords.Point{Canonical: "х5320000, у7411000", Color: "#e6194b"}
	if got := Highlight(p); !strings.Contains(got, p.Canonical) {
		t.Errorf("Highlight = %q", got)
	}
}
