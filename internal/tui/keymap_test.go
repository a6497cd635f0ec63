package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyState_VimSequences(t *testing.T) {
	km := DefaultKeymap(true)

	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		action string
	}{
		{"gg goes to top", []tea.KeyMsg{runeKey("g"), runeKey("g")}, actionTop},
		{"dd deletes", []tea.KeyMsg{runeKey("d"), runeKey("d")}, actionDelete},
		{"yy copies", []tea.KeyMsg{runeKey("y"), runeKey("y")}, actionCopy},
		{"G goes to bottom", []tea.KeyMsg{runeKey("G")}, actionBottom},
		{"j moves down", []tea.KeyMsg{runeKey("j")}, actionDown},
		{"g then j cancels and moves", []tea.KeyMsg{runeKey("g"), runeKey("j")}, actionDown},
		{"delete key deletes at once", []tea.KeyMsg{{Type: tea.KeyDelete}}, actionDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ks KeyState
			var action string
			for _, k := range tt.keys {
				action, _ = ks.HandleKey(k, km)
			}
			if action != tt.action {
				t.Errorf("got action %q, want %q", action, tt.action)
			}
			if ks.Pending() {
				t.Error("sequence should be resolved")
			}
		})
	}
}

func TestKeyState_FirstKeyIsSwallowed(t *testing.T) {
	km := DefaultKeymap(true)
	var ks KeyState

	action, consumed := ks.HandleKey(runeKey("d"), km)
	if action != "" || !consumed {
		t.Errorf("single d: got (%q, %v), want (\"\", true)", action, consumed)
	}
	if !ks.WaitingD {
		t.Error("expected to wait for the second d")
	}

	ks.Reset()
	if ks.Pending() {
		t.Error("Reset should clear the pending sequence")
	}
}

func TestKeyState_NonVim(t *testing.T) {
	km := DefaultKeymap(false)
	var ks KeyState

	if action, _ := ks.HandleKey(runeKey("g"), km); action != "" {
		t.Errorf("g without vim mode should do nothing, got %q", action)
	}
	if action, _ := ks.HandleKey(runeKey("j"), km); action != "" {
		t.Errorf("j without vim mode should do nothing, got %q", action)
	}
	if action, _ := ks.HandleKey(tea.KeyMsg{Type: tea.KeyHome}, km); action != actionTop {
		t.Errorf("home: got %q, want %q", action, actionTop)
	}
	if action, _ := ks.HandleKey(runeKey("c"), km); action != actionCopy {
		t.Errorf("c: got %q, want %q", action, actionCopy)
	}
}

func TestKeymap_FullHelp(t *testing.T) {
	groups := DefaultKeymap(true).FullHelp()
	if len(groups) != len(helpSections) {
		t.Fatalf("got %d help groups, want one per section (%d)", len(groups), len(helpSections))
	}

	keys := map[string]bool{}
	for _, group := range groups {
		for _, b := range group {
			keys[b.Help().Key] = true
		}
	}
	for _, want := range []string{"dd", "gg", "yy", "1-4", "esc"} {
		if !keys[want] {
			t.Errorf("full help should list %q", want)
		}
	}
}
