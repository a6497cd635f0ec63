package components

// Pane represents which pane is currently focused.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneMain
)

// Sidebar item kinds.
const (
	ItemSpecial   = "special"
	ItemSeparator = "separator"
	ItemProject   = "project"
)

// SidebarItem represents an item in the sidebar (special filters or projects).
type SidebarItem struct {
	Type       string // ItemSpecial, ItemSeparator or ItemProject
	ID         string // filter name for specials, project ID for projects
	Name       string
	Icon       string
	Count      int
	IsFavorite bool
	ParentID   *string
	Color      string
}
