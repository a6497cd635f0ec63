package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// HelpModel is the full-screen key reference. Each FullHelp group of the
// key map becomes one titled column.
type HelpModel struct {
	width, height int
	keymap        help.KeyMap
	titles        []string
}

// NewHelp creates a new HelpModel.
func NewHelp() *HelpModel {
	return &HelpModel{}
}

// Init implements Component.
func (h *HelpModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (h *HelpModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseHelpMsg{} }
		}
	}
	return h, nil
}

// View implements Component.
func (h *HelpModel) View() string {
	if h.keymap == nil {
		return styles.Dialog.Render("No keybindings registered")
	}

	groups := h.keymap.FullHelp()
	colWidth := min(max(h.width/max(len(groups), 1), 24), 40)
	columnStyle := lipgloss.NewStyle().Width(colWidth).PaddingLeft(2).PaddingRight(2)
	keyStyle := styles.HelpKey.Width(8).Align(lipgloss.Right).PaddingRight(2)

	columns := make([]string, 0, len(groups))
	for i, group := range groups {
		var col strings.Builder
		if i < len(h.titles) {
			col.WriteString(styles.SectionHeader.Render(h.titles[i]))
			col.WriteString("\n\n")
		}
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			col.WriteString(keyStyle.Render(b.Help().Key))
			col.WriteString(styles.HelpDesc.Render(b.Help().Desc))
			col.WriteString("\n")
		}
		columns = append(columns, columnStyle.Render(col.String()))
	}

	footer := styles.HelpDesc.Render("Press esc or ? to close")
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Keyboard Shortcuts"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		lipgloss.NewStyle().Width(h.width).Align(lipgloss.Center).Render(footer),
	)
}

// SetSize implements Component.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetKeyMap sets the bindings to list and the title of each group.
func (h *HelpModel) SetKeyMap(km help.KeyMap, titles ...string) {
	h.keymap = km
	h.titles = titles
}
