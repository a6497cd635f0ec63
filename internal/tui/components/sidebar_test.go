package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/tree"
)

var sidebarProjects = []api.Project{
	{ID: "inbox", Name: "Inbox", InboxProject: true},
	{ID: "work", Name: "Work", IsFavorite: true},
	{ID: "home", Name: "Home"},
}

func itemNames(s *SidebarModel) []string {
	var names []string
	for _, item := range s.Items() {
		names = append(names, item.Name)
	}
	return names
}

func TestSidebar_Layout(t *testing.T) {
	s := NewSidebar()
	s.SetProjects(sidebarProjects, nil)

	want := []string{"All tasks", "Today", "Overdue", "", "Work", "Inbox", "Home"}
	if diff := cmp.Diff(want, itemNames(s)); diff != "" {
		t.Errorf("sidebar items mismatch (-want +got):\n%s", diff)
	}
}

func TestSidebar_CursorSkipsSeparator(t *testing.T) {
	s := NewSidebar()
	s.SetProjects(sidebarProjects, nil)

	s.MoveCursor(2)
	s.MoveCursor(1)
	if got := s.CurrentItem().Name; got != "Work" {
		t.Errorf("moved onto %q, want Work", got)
	}
	s.MoveCursor(-1)
	if got := s.CurrentItem().Name; got != "Overdue" {
		t.Errorf("moved back onto %q, want Overdue", got)
	}
}

func TestSidebar_EnterSelectsFilter(t *testing.T) {
	s := NewSidebar()
	s.SetProjects(sidebarProjects, nil)
	s.Focus()

	tests := []struct {
		keys []string
		want FilterSelectedMsg
	}{
		{[]string{"j"}, FilterSelectedMsg{Filter: tree.DueToday(), Name: "Today"}},
		{[]string{"G"}, FilterSelectedMsg{Filter: tree.Project("home"), Name: "Home", Project: true}},
		{[]string{"g"}, FilterSelectedMsg{Filter: tree.AllTasks(), Name: "All tasks"}},
	}

	for _, tt := range tests {
		for _, k := range tt.keys {
			s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatalf("%v: enter returned no command", tt.keys)
		}
		if diff := cmp.Diff(tt.want, cmd()); diff != "" {
			t.Errorf("%v: message mismatch (-want +got):\n%s", tt.keys, diff)
		}
	}
}

func TestSidebar_RebuildKeepsCursor(t *testing.T) {
	s := NewSidebar()
	s.SetProjects(sidebarProjects, nil)
	s.moveCursorToEnd()

	more := append([]api.Project{{ID: "new", Name: "New", IsFavorite: true}}, sidebarProjects...)
	s.SetProjects(more, map[string]int{"home": 3, "all": 7})

	item := s.CurrentItem()
	if item == nil || item.ID != "home" {
		t.Fatalf("cursor on %+v, want home", item)
	}
	if item.Count != 3 {
		t.Errorf("count = %d, want 3", item.Count)
	}
}

func TestSidebar_View(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 20)
	s.SetProjects(sidebarProjects, map[string]int{"today": 2})

	view := s.View()
	for _, want := range []string{"Filters", "Today (2)", "Work", "Home"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if name, ok := s.ProjectName("work"); !ok || name != "Work" {
		t.Errorf("ProjectName(work) = %q, %v", name, ok)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer name", 6, "a lon…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
