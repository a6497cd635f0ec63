package tree

import (
	"github.com/hy4ri/todoist-tree/internal/api"
)

// The service numbers priorities the other way round: 4 is p1.
const apiPriorityBase = 5

// APIPriority converts a tree priority to the service's numbering.
func APIPriority(p int) int {
	return apiPriorityBase - ClampPriority(p)
}

// PriorityFromAPI converts the service's numbering to a tree priority.
// Zero, sent by some endpoints for "unset", maps to the lowest priority.
func PriorityFromAPI(p int) int {
	if p == 0 {
		return PriorityLowest
	}
	return ClampPriority(apiPriorityBase - p)
}

// FromAPI converts a service task. An unparseable due date keeps the
// human string but drops the date, so the task never matches date filters.
func FromAPI(t api.Task) Task {
	out := Task{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Order:       t.ChildOrder,
		Priority:    PriorityFromAPI(t.Priority),
		Content:     t.Content,
		Description: t.Description,
		Labels:      t.Labels,
	}
	if t.ParentID != nil {
		out.ParentID = *t.ParentID
	}
	if t.SectionID != nil {
		out.SectionID = *t.SectionID
	}
	if t.Due != nil {
		due := &Due{String: t.Due.String, Recurring: t.Due.IsRecurring}
		if d, err := ParseDate(t.Due.Date); err == nil {
			due.Date = d
		}
		out.Due = due
	}
	return out
}

// FromAPIList converts every task in ts, skipping completed ones.
func FromAPIList(ts []api.Task) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		if t.Checked {
			continue
		}
		out = append(out, FromAPI(t))
	}
	return out
}

// ToAPI converts back to the service shape, used when persisting snapshots.
func ToAPI(t Task) api.Task {
	out := api.Task{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Content:     t.Content,
		Description: t.Description,
		Labels:      t.Labels,
		ChildOrder:  t.Order,
		Priority:    APIPriority(t.Priority),
	}
	if t.ParentID != "" {
		out.ParentID = api.StringPtr(t.ParentID)
	}
	if t.SectionID != "" {
		out.SectionID = api.StringPtr(t.SectionID)
	}
	if t.Due != nil {
		out.Due = &api.Due{String: t.Due.String, IsRecurring: t.Due.Recurring}
		if !t.Due.Date.IsZero() {
			out.Due.Date = t.Due.Date.String()
		}
	}
	return out
}

// ToAPIList converts every task in ts.
func ToAPIList(ts []Task) []api.Task {
	out := make([]api.Task, len(ts))
	for i, t := range ts {
		out[i] = ToAPI(t)
	}
	return out
}
