package tree

import (
	"testing"
	"time"

	"github.com/hy4ri/todoist-tree/internal/api"
)

func TestPriorityConversion(t *testing.T) {
	tests := []struct {
		api, tree int
	}{
		{4, 1},
		{3, 2},
		{2, 3},
		{1, 4},
	}
	for _, tt := range tests {
		if got := PriorityFromAPI(tt.api); got != tt.tree {
			t.Errorf("PriorityFromAPI(%d) = %d, want %d", tt.api, got, tt.tree)
		}
		if got := APIPriority(tt.tree); got != tt.api {
			t.Errorf("APIPriority(%d) = %d, want %d", tt.tree, got, tt.api)
		}
	}
	if got := PriorityFromAPI(0); got != PriorityLowest {
		t.Errorf("unset priority = %d, want %d", got, PriorityLowest)
	}
}

func TestFromAPI(t *testing.T) {
	in := api.Task{
		ID:         "7",
		ParentID:   api.StringPtr("3"),
		ProjectID:  "p",
		ChildOrder: 2,
		Priority:   4,
		Content:    "Write report",
		Due:        &api.Due{Date: "2026-03-10T09:00:00", String: "today 9am"},
	}

	got := FromAPI(in)
	if got.ParentID != "3" || got.Order != 2 || got.Priority != 1 {
		t.Errorf("unexpected conversion: %+v", got)
	}
	if got.Due == nil || got.Due.Date != (Date{2026, time.March, 10}) {
		t.Errorf("unexpected due: %+v", got.Due)
	}

	back := ToAPI(got)
	if back.Priority != 4 || back.ParentID == nil || *back.ParentID != "3" || back.Due.Date != "2026-03-10" {
		t.Errorf("unexpected round trip: %+v", back)
	}
}

func TestFromAPIListSkipsCompleted(t *testing.T) {
	got := FromAPIList([]api.Task{{ID: "a"}, {ID: "b", Checked: true}, {ID: "c", Due: &api.Due{Date: "bogus", String: "soon"}}})
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[1].Due == nil || !got[1].Due.Date.IsZero() || got[1].Due.String != "soon" {
		t.Errorf("unparseable due should keep its string only: %+v", got[1].Due)
	}
}

func TestDueLabel(t *testing.T) {
	tests := []struct {
		due  Date
		want string
	}{
		{Date{2026, time.March, 7}, "3 days ago"},
		{Date{2026, time.March, 9}, "yesterday"},
		{testToday, "today"},
		{Date{2026, time.March, 11}, "tomorrow"},
		{Date{2026, time.March, 13}, "Friday"},
		{Date{2026, time.April, 2}, "Apr 2"},
	}
	for _, tt := range tests {
		task := Task{Due: due(tt.due)}
		if got := task.DueLabel(testToday); got != tt.want {
			t.Errorf("DueLabel(%s) = %q, want %q", tt.due, got, tt.want)
		}
	}
}

func TestParseFilterAndSort(t *testing.T) {
	for _, s := range []string{"all", "today", "overdue", "project:42"} {
		f, err := ParseFilter(s)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", s, err)
		}
		if f.String() != s {
			t.Errorf("ParseFilter(%q).String() = %q", s, f.String())
		}
	}
	if _, err := ParseFilter("project:"); err == nil {
		t.Error("expected error for empty project id")
	}
	if c, err := ParseSort("date"); err != nil || c != SortDate {
		t.Errorf("ParseSort(date) = %v, %v", c, err)
	}
	if _, err := ParseSort("alpha"); err == nil {
		t.Error("expected error for unknown sort")
	}
}
