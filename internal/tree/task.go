// Package tree holds the flat task store and the logic that turns it into
// the filtered, ordered, depth-first list the interface renders.
package tree

import (
	"fmt"
	"slices"
)

const (
	// PriorityHighest is the most urgent priority.
	PriorityHighest = 1
	// PriorityLowest is the default priority of a new task.
	PriorityLowest = 4
)

// Task is a single node in the task forest. ParentID is empty for roots.
type Task struct {
	ID          string
	ParentID    string
	ProjectID   string
	SectionID   string
	Order       int
	Priority    int
	Due         *Due
	Content     string
	Description string
	Labels      []string
}

// Due is a task's due date. String is the human phrasing the service
// returned ("every monday") and is only ever displayed.
type Due struct {
	Date      Date
	String    string
	Recurring bool
}

// IsRoot reports whether t has no parent.
func (t Task) IsRoot() bool {
	return t.ParentID == ""
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	c.Labels = slices.Clone(t.Labels)
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	return c
}

// DueLabel renders the due date relative to today.
func (t Task) DueLabel(today Date) string {
	if t.Due == nil {
		return ""
	}
	if t.Due.Date.IsZero() {
		return t.Due.String
	}

	diff := today.DaysUntil(t.Due.Date)
	switch {
	case diff < -1:
		return fmt.Sprintf("%d days ago", -diff)
	case diff == -1:
		return "yesterday"
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff < 7:
		return t.Due.Date.Time().Weekday().String()
	default:
		return t.Due.Date.Time().Format("Jan 2")
	}
}

// IsOverdue reports whether t is due strictly before today.
func (t Task) IsOverdue(today Date) bool {
	return t.Due != nil && !t.Due.Date.IsZero() && t.Due.Date.Before(today)
}

// IsDueToday reports whether t is due on today.
func (t Task) IsDueToday(today Date) bool {
	return t.Due != nil && t.Due.Date == today
}

// ClampPriority forces p into [PriorityHighest, PriorityLowest].
func ClampPriority(p int) int {
	return min(max(p, PriorityHighest), PriorityLowest)
}
