package components

import "github.com/hy4ri/todoist-tree/internal/tree"

// FilterSelectedMsg is emitted when an item is chosen in the sidebar.
// Project is set when the item was a project rather than a special filter.
type FilterSelectedMsg struct {
	Filter  tree.Filter
	Name    string
	Project bool
}

// CloseHelpMsg is emitted when the help view is dismissed.
type CloseHelpMsg struct{}
