// Package components holds the panes drawn by the tui package: the filter
// sidebar, the task tree and the help screen. Panes keep view state only;
// task data is pushed in by the app.
package components

import tea "github.com/charmbracelet/bubbletea"

// Component is a pane the app can size, update and draw.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Focusable panes draw their cursor and highlighted border only while focused.
type Focusable interface {
	Component
	Focus()
	Blur()
	Focused() bool
}

// DataReceiver panes render from a T that the app replaces wholesale.
type DataReceiver[T any] interface {
	Component
	SetData(data T)
}

var (
	_ Focusable = (*SidebarModel)(nil)
	_ Focusable = (*TaskListModel)(nil)
	_ Component = (*HelpModel)(nil)
)
