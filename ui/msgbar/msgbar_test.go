package msgbar

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gridmark/packet"
)

func TestNotifyToast(t *testing.T) {
	m := New()
	cmd := m.Notify("Created 2 marker(s), candidates scanned: 2")
	if cmd == nil {
		t.Fatal("Notify returned no command")
	}
	if !m.Toasting() {
		t.Fatal("not toasting after Notify")
	}

	// An older toast expiring must not end the newer one.
	m.Notify("Created 0 marker(s), candidates scanned: 0")
	m, _ = m.Update(toastExpiredMsg{id: 1})
	if !m.Toasting() {
		t.Error("stale expiry ended the current toast")
	}
	m, _ = m.Update(toastExpiredMsg{id: 2})
	if m.Toasting() {
		t.Error("toast still on after its expiry")
	}
}

func TestPacketLines(t *testing.T) {
	m := New()
	m, _ = m.Update(&packet.Packet{Callsign: "UR5ABC", Type: packet.TypeText, Text: "hello"})
	m, _ = m.Update(&packet.Packet{Callsign: "UT1XYZ", Type: packet.TypeMessage, MsgTo: "UR5ABC", Text: "ok"})

	lines := m.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "UR5ABC: hello" || lines[1] != "UT1XYZ > UR5ABC: ok" {
		t.Errorf("lines = %q", lines)
	}
	if m.Toasting() {
		t.Error("feed traffic should not toast")
	}
}

func TestHistoryBounded(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 50, Height: 7})
	for i := range 20 {
		m.push(fmt.Sprintf("line %d", i))
	}
	if n := len(m.Lines()); n != barHeight-2 {
		t.Errorf("kept %d lines, want %d", n, barHeight-2)
	}
	out := m.View()
	if !strings.Contains(out, "line 19") || strings.Contains(out, "line 14") {
		t.Errorf("unexpected view:\n%s", out)
	}
	if n := len(strings.Split(out, "\n")); n != barHeight {
		t.Errorf("view is %d lines, want %d", n, barHeight)
	}
}
