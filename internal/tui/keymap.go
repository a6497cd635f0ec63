package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Actions returned by KeyState.HandleKey.
const (
	actionUp         = "up"
	actionDown       = "down"
	actionTop        = "top"
	actionBottom     = "bottom"
	actionSwitchPane = "switch_pane"
	actionSelect     = "select"
	actionBack       = "back"
	actionAdd        = "add"
	actionAddSubtask = "add_subtask"
	actionComplete   = "complete"
	actionDelete     = "delete"
	actionCopy       = "copy"
	actionSort       = "sort"
	actionFilter     = "filter"
	actionRefresh    = "refresh"
	actionHelp       = "help"
	actionQuit       = "quit"
	actionPriority1  = "priority1"
	actionPriority2  = "priority2"
	actionPriority3  = "priority3"
	actionPriority4  = "priority4"
)

// Keymap contains all key bindings for the application.
type Keymap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	SwitchPane key.Binding

	// Task actions
	Edit       key.Binding
	Back       key.Binding
	Add        key.Binding
	AddSubtask key.Binding
	Complete   key.Binding
	Delete     key.Binding
	Copy       key.Binding
	Priority1  key.Binding
	Priority2  key.Binding
	Priority3  key.Binding
	Priority4  key.Binding

	// View
	Sort    key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// vim enables the two-key gg, dd and yy sequences.
	vim bool
}

// DefaultKeymap returns the key bindings. With vim set, movement uses
// j/k and top, delete and copy use doubled keys. The first key of a pair
// is swallowed by KeyState and never matched directly.
func DefaultKeymap(vim bool) Keymap {
	k := Keymap{
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Top:        key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "bottom")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),

		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unselect")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		AddSubtask: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "add subtask")),
		Complete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
		Delete:     key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Priority1:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "priority 1 (highest)")),
		Priority2:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "priority 2")),
		Priority3:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "priority 3")),
		Priority4:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "priority 4 (lowest)")),

		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sort")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resync")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		vim:     vim,
	}

	if vim {
		k.Up = key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up"))
		k.Down = key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down"))
		k.Top = key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top"))
		k.Bottom = key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom"))
		k.Delete = key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("dd", "delete"))
		k.Copy = key.NewBinding(key.WithKeys("y"), key.WithHelp("yy", "copy"))
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Delete, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.SwitchPane, k.Back},
		{k.Edit, k.Add, k.AddSubtask, k.Complete, k.Delete, k.Copy, priorityHelp},
		{k.Sort, k.Filter, k.Refresh, k.Help, k.Quit},
	}
}

// helpSections titles the FullHelp groups on the help screen.
var helpSections = []string{"Navigation", "Task Actions", "General"}

// priorityHelp stands in for Priority1..Priority4 in the help screen.
var priorityHelp = key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "set priority"))

// KeyState tracks multi-key sequences (like 'gg' or 'dd').
type KeyState struct {
	LastKey  string
	WaitingG bool // Waiting for second 'g' in 'gg'
	WaitingD bool // Waiting for second 'd' in 'dd'
	WaitingY bool // Waiting for second 'y' in 'yy'
}

// HandleKey processes a key press and returns the action to take.
// Returns the action name and whether the key was consumed.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, keymap Keymap) (string, bool) {
	if keymap.vim {
		if action, consumed, done := ks.handleSequence(msg.String()); done {
			return action, consumed
		}
	}

	switch {
	case key.Matches(msg, keymap.Up):
		return actionUp, true
	case key.Matches(msg, keymap.Down):
		return actionDown, true
	case key.Matches(msg, keymap.Top):
		return actionTop, true
	case key.Matches(msg, keymap.Bottom):
		return actionBottom, true
	case key.Matches(msg, keymap.SwitchPane):
		return actionSwitchPane, true
	case key.Matches(msg, keymap.Edit):
		return actionSelect, true
	case key.Matches(msg, keymap.Back):
		return actionBack, true
	case key.Matches(msg, keymap.Add):
		return actionAdd, true
	case key.Matches(msg, keymap.AddSubtask):
		return actionAddSubtask, true
	case key.Matches(msg, keymap.Complete):
		return actionComplete, true
	case key.Matches(msg, keymap.Delete):
		return actionDelete, true
	case key.Matches(msg, keymap.Copy):
		return actionCopy, true
	case key.Matches(msg, keymap.Priority1):
		return actionPriority1, true
	case key.Matches(msg, keymap.Priority2):
		return actionPriority2, true
	case key.Matches(msg, keymap.Priority3):
		return actionPriority3, true
	case key.Matches(msg, keymap.Priority4):
		return actionPriority4, true
	case key.Matches(msg, keymap.Sort):
		return actionSort, true
	case key.Matches(msg, keymap.Filter):
		return actionFilter, true
	case key.Matches(msg, keymap.Refresh):
		return actionRefresh, true
	case key.Matches(msg, keymap.Help):
		return actionHelp, true
	case key.Matches(msg, keymap.Quit):
		return actionQuit, true
	}

	return "", false
}

// handleSequence resolves the vim doubled keys. done is false when k is not
// part of a sequence and should be matched normally.
func (ks *KeyState) handleSequence(k string) (action string, consumed, done bool) {
	waitingG, waitingD, waitingY := ks.WaitingG, ks.WaitingD, ks.WaitingY
	ks.Reset()

	switch {
	case waitingG && k == "g":
		return actionTop, true, true
	case waitingD && k == "d":
		return actionDelete, true, true
	case waitingY && k == "y":
		return actionCopy, true, true
	}

	// A non-matching key cancels the pending sequence and is processed normally.
	switch k {
	case "g":
		ks.WaitingG = true
	case "d":
		ks.WaitingD = true
	case "y":
		ks.WaitingY = true
	default:
		return "", false, false
	}
	ks.LastKey = k
	return "", true, true
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
	ks.WaitingD = false
	ks.WaitingY = false
	ks.LastKey = ""
}

// Pending reports whether the first key of a sequence has been pressed.
func (ks *KeyState) Pending() bool {
	return ks.WaitingG || ks.WaitingD || ks.WaitingY
}
