package components

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// specialFilters are listed above the projects.
var specialFilters = []struct {
	filter tree.Filter
	icon   string
}{
	{tree.AllTasks(), "*"},
	{tree.DueToday(), "◉"},
	{tree.Overdue(), "!"},
}

// SidebarModel manages the filter and project navigation.
type SidebarModel struct {
	items         []SidebarItem
	cursor        int
	scrollOffset  int
	width, height int
	focused       bool
	active        tree.Filter
}

// NewSidebar creates a new SidebarModel.
func NewSidebar() *SidebarModel {
	s := &SidebarModel{active: tree.AllTasks()}
	s.SetProjects(nil, nil)
	return s
}

// Init implements Component.
func (s *SidebarModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (s *SidebarModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}
	return s, nil
}

// handleKeyMsg processes keyboard input for the sidebar.
func (s *SidebarModel) handleKeyMsg(msg tea.KeyMsg) (Component, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		s.MoveCursor(1)
	case "k", "up":
		s.MoveCursor(-1)
	case "g", "home":
		// 'gg' is folded into a single 'g' here; the sidebar has no other g-commands.
		s.cursor = 0
	case "G", "end":
		s.moveCursorToEnd()
	case "enter", "l":
		item := s.CurrentItem()
		if item == nil || item.Type == ItemSeparator {
			return s, nil
		}
		sel := FilterSelectedMsg{
			Filter:  itemFilter(*item),
			Name:    item.Name,
			Project: item.Type == ItemProject,
		}
		return s, func() tea.Msg { return sel }
	}
	return s, nil
}

// itemFilter maps a sidebar item to the filter it selects.
func itemFilter(item SidebarItem) tree.Filter {
	if item.Type == ItemProject {
		return tree.Project(item.ID)
	}
	f, err := tree.ParseFilter(item.ID)
	if err != nil {
		return tree.AllTasks()
	}
	return f
}

// truncateString truncates a string to a display width, adding an ellipsis.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// View implements Component.
func (s *SidebarModel) View() string {
	// borders take two rows, the title and a blank line two more
	inner := s.height - 2
	rows := max(inner-2, 1)
	s.scrollOffset = clampOffset(s.scrollOffset, s.cursor, rows, len(s.items))

	lines := []string{styles.Title.Render("Filters"), ""}
	for i := s.scrollOffset; i < min(s.scrollOffset+rows, len(s.items)); i++ {
		lines = append(lines, s.renderItem(i))
	}

	box := styles.Sidebar
	if s.focused {
		box = styles.SidebarFocused
	}
	return box.Width(s.width).Height(max(inner, 3)).Render(strings.Join(lines, "\n"))
}

// clampOffset scrolls the window of rows lines so that cursor stays inside
// it without running past the last of total items.
func clampOffset(offset, cursor, rows, total int) int {
	offset = min(offset, cursor)
	offset = max(offset, cursor-rows+1)
	return max(min(offset, total-rows), 0)
}

// renderItem renders the item at index i.
func (s *SidebarModel) renderItem(i int) string {
	item := s.items[i]
	selected := i == s.cursor && s.focused

	if item.Type == ItemSeparator {
		line := strings.Repeat("─", max(s.width-6, 1))
		if selected {
			return styles.SidebarSeparator.Render("> " + line)
		}
		return styles.SidebarSeparator.Render("  " + line)
	}

	cursor := "  "
	style := styles.ProjectItem
	if selected {
		cursor = "> "
		style = styles.ProjectSelected
	} else if itemFilter(item) == s.active {
		style = styles.SidebarActive
	}

	indent := ""
	if item.ParentID != nil {
		indent = "  "
	}

	countStr := ""
	if item.Count > 0 {
		countStr = fmt.Sprintf(" (%d)", item.Count)
	}

	// cursor, indent, icon and padding share the row with the name
	avail := s.width - 8 - len(indent)
	if len(countStr) >= avail {
		countStr = ""
	}
	name := truncateString(item.Name, avail-len(countStr))

	icon := item.Icon
	if item.Color != "" && !selected {
		colored := lipgloss.NewStyle().Foreground(styles.GetColor(item.Color))
		icon = colored.Render(icon)
		name = colored.Render(name)
	}

	line := fmt.Sprintf("%s%s%s %s%s", cursor, indent, icon, name, countStr)
	return style.MaxWidth(s.width - 2).Render(line)
}

// SetSize implements Component.
func (s *SidebarModel) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus sets the sidebar as focused.
func (s *SidebarModel) Focus() {
	s.focused = true
}

// Blur removes focus from the sidebar.
func (s *SidebarModel) Blur() {
	s.focused = false
}

// Focused returns whether the sidebar is focused.
func (s *SidebarModel) Focused() bool {
	return s.focused
}

// SetProjects rebuilds the sidebar items. counts is keyed by filter name
// ("all", "today", "overdue") for the specials and by project ID otherwise.
func (s *SidebarModel) SetProjects(projects []api.Project, counts map[string]int) {
	var current tree.Filter
	if item := s.CurrentItem(); item != nil && item.Type != ItemSeparator {
		current = itemFilter(*item)
	}

	s.items = nil
	for _, sf := range specialFilters {
		s.items = append(s.items, SidebarItem{
			Type:  ItemSpecial,
			ID:    sf.filter.String(),
			Name:  sf.filter.Title(),
			Icon:  sf.icon,
			Count: counts[sf.filter.String()],
		})
	}
	if len(projects) == 0 {
		s.restoreCursor(current)
		return
	}

	s.items = append(s.items, SidebarItem{Type: ItemSeparator})
	for _, p := range favoritesFirst(projects) {
		s.items = append(s.items, projectItem(p, counts[p.ID]))
	}
	s.restoreCursor(current)
}

// favoritesFirst is a stable partition of projects, favorites on top.
func favoritesFirst(projects []api.Project) []api.Project {
	out := slices.Clone(projects)
	slices.SortStableFunc(out, func(a, b api.Project) int {
		switch {
		case a.IsFavorite == b.IsFavorite:
			return 0
		case a.IsFavorite:
			return -1
		default:
			return 1
		}
	})
	return out
}

func projectItem(p api.Project, count int) SidebarItem {
	icon := "#"
	switch {
	case p.InboxProject:
		icon = "▣"
	case p.IsFavorite:
		icon = "♥"
	}
	return SidebarItem{
		Type:       ItemProject,
		ID:         p.ID,
		Name:       p.Name,
		Icon:       icon,
		Count:      count,
		IsFavorite: p.IsFavorite,
		ParentID:   p.ParentID,
		Color:      p.Color,
	}
}

// restoreCursor keeps the cursor on the item it was on before a rebuild.
func (s *SidebarModel) restoreCursor(f tree.Filter) {
	for i, item := range s.items {
		if item.Type != ItemSeparator && itemFilter(item) == f {
			s.cursor = i
			return
		}
	}
	s.cursor = min(s.cursor, max(len(s.items)-1, 0))
}

// SetActive highlights the item matching the active filter.
func (s *SidebarModel) SetActive(f tree.Filter) {
	s.active = f
}

// ProjectName returns the name of the project with the given id.
func (s *SidebarModel) ProjectName(id string) (string, bool) {
	for _, item := range s.items {
		if item.Type == ItemProject && item.ID == id {
			return item.Name, true
		}
	}
	return "", false
}

// MoveCursor moves the cursor by delta, stepping over separators and
// stopping at either end.
func (s *SidebarModel) MoveCursor(delta int) {
	if len(s.items) == 0 || delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	pos := s.cursor
	for moved := 0; moved != delta; moved += step {
		next := pos + step
		for next >= 0 && next < len(s.items) && s.items[next].Type == ItemSeparator {
			next += step
		}
		if next < 0 || next >= len(s.items) {
			break
		}
		pos = next
	}
	s.cursor = pos
}

// moveCursorToEnd puts the cursor on the last selectable item.
func (s *SidebarModel) moveCursorToEnd() {
	s.cursor = 0
	s.MoveCursor(len(s.items))
}

// Cursor returns the current cursor position.
func (s *SidebarModel) Cursor() int {
	return s.cursor
}

// Items returns the current sidebar items.
func (s *SidebarModel) Items() []SidebarItem {
	return s.items
}

// CurrentItem returns the item at the current cursor position.
func (s *SidebarModel) CurrentItem() *SidebarItem {
	if s.cursor >= 0 && s.cursor < len(s.items) {
		return &s.items[s.cursor]
	}
	return nil
}
