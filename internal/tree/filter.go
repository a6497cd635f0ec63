package tree

import (
	"fmt"
	"strings"
)

// FilterKind enumerates the supported membership tests.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterDueToday
	FilterOverdue
	FilterProject
)

// Filter selects which root tasks, and with them which subtrees, are shown.
type Filter struct {
	Kind      FilterKind
	ProjectID string
}

// AllTasks matches every root.
func AllTasks() Filter { return Filter{Kind: FilterAll} }

// DueToday matches roots due on the current date.
func DueToday() Filter { return Filter{Kind: FilterDueToday} }

// Overdue matches roots due strictly before the current date.
func Overdue() Filter { return Filter{Kind: FilterOverdue} }

// Project matches roots belonging to the given project.
func Project(id string) Filter { return Filter{Kind: FilterProject, ProjectID: id} }

// Matches evaluates f against t's own attributes. Descendants are never
// consulted; the caller applies the result to t's whole subtree.
func (f Filter) Matches(t Task, today Date) bool {
	switch f.Kind {
	case FilterAll:
		return true
	case FilterDueToday:
		return t.IsDueToday(today)
	case FilterOverdue:
		return t.IsOverdue(today)
	case FilterProject:
		return t.ProjectID == f.ProjectID
	default:
		return false
	}
}

// Next cycles through the date-based filters. A project filter goes back to all.
func (f Filter) Next() Filter {
	switch f.Kind {
	case FilterAll:
		return DueToday()
	case FilterDueToday:
		return Overdue()
	default:
		return AllTasks()
	}
}

// String returns the form ParseFilter accepts.
func (f Filter) String() string {
	switch f.Kind {
	case FilterDueToday:
		return "today"
	case FilterOverdue:
		return "overdue"
	case FilterProject:
		return "project:" + f.ProjectID
	default:
		return "all"
	}
}

// Title is the human label for the active filter.
func (f Filter) Title() string {
	switch f.Kind {
	case FilterDueToday:
		return "Today"
	case FilterOverdue:
		return "Overdue"
	case FilterProject:
		return "Project"
	default:
		return "All tasks"
	}
}

// ParseFilter parses "all", "today", "overdue" or "project:<id>". The empty
// string means all.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "all":
		return AllTasks(), nil
	case "today":
		return DueToday(), nil
	case "overdue":
		return Overdue(), nil
	}
	if id, ok := strings.CutPrefix(s, "project:"); ok && id != "" {
		return Project(id), nil
	}
	return Filter{}, fmt.Errorf("unknown filter %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(b []byte) error {
	parsed, err := ParseFilter(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
