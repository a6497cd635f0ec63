package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type stubKeyMap struct{}

func (stubKeyMap) ShortHelp() []key.Binding { return nil }

func (stubKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "down"))},
		{
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
			key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "hidden"), key.WithDisabled()),
		},
	}
}

func TestHelpView(t *testing.T) {
	h := NewHelp()
	h.SetSize(100, 30)

	if view := h.View(); !strings.Contains(view, "No keybindings") {
		t.Errorf("empty help should say so, got %q", view)
	}

	h.SetKeyMap(stubKeyMap{}, "Moving", "Doing")
	view := h.View()
	for _, want := range []string{"Moving", "Doing", "down", "complete", "esc or ?"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}
	if strings.Contains(view, "hidden") {
		t.Error("disabled bindings should not be listed")
	}
}

func TestHelpClose(t *testing.T) {
	h := NewHelp()
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("?")},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		_, cmd := h.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected a close command", k)
		}
		if _, ok := cmd().(CloseHelpMsg); !ok {
			t.Errorf("%s: expected CloseHelpMsg", k)
		}
	}

	if _, cmd := h.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}); cmd != nil {
		t.Error("other keys should be ignored")
	}
}
