package tree

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testToday = Date{Year: 2026, Month: time.March, Day: 10}

func fixedClock() Clock {
	return ClockFunc(func() Date { return testToday })
}

func due(d Date) *Due {
	return &Due{Date: d, String: d.String()}
}

// forest builds:
//
//	A (p2)
//	  B (order 1)
//	    D
//	  C (order 2)
//	E (p1)
//	F (p3, orphan parent X)
func forest() []Task {
	return []Task{
		{ID: "A", Priority: 2, ProjectID: "p1"},
		{ID: "C", ParentID: "A", Order: 2},
		{ID: "B", ParentID: "A", Order: 1},
		{ID: "D", ParentID: "B", Order: 1},
		{ID: "E", Priority: 1, ProjectID: "p2"},
		{ID: "F", ParentID: "X", Priority: 3},
	}
}

func TestRebuildDepthFirst(t *testing.T) {
	s := NewStore(forest())
	list := Rebuild(s, AllTasks(), SortPriority, testToday)

	want := []Entry{
		{ID: "E", Depth: 0},
		{ID: "A", Depth: 0},
		{ID: "B", Depth: 1},
		{ID: "D", Depth: 2},
		{ID: "C", Depth: 1},
	}
	if diff := cmp.Diff(want, list.Entries()); diff != "" {
		t.Errorf("Rebuild() mismatch (-want +got):\n%s", diff)
	}

	// parent before child for every shown non-root
	for i, e := range list.Entries() {
		task, _ := s.Get(e.ID)
		if task.IsRoot() {
			continue
		}
		pi, ok := list.IndexOf(task.ParentID)
		if !ok || pi >= i {
			t.Errorf("%s at %d shown before parent %s (%d, %v)", e.ID, i, task.ParentID, pi, ok)
		}
	}
}

func TestRebuildDropsOrphans(t *testing.T) {
	s := NewStore(forest())
	list := Rebuild(s, AllTasks(), SortPriority, testToday)

	if list.Contains("F") {
		t.Error("orphan F should not be shown")
	}
	if s.Len() != 6 {
		t.Errorf("rebuild must not mutate the store, len = %d", s.Len())
	}
}

func TestRebuildFilterContainment(t *testing.T) {
	tasks := []Task{
		{ID: "today", Due: due(testToday)},
		{ID: "today-child", ParentID: "today", Order: 1},
		{ID: "late", Due: due(Date{2026, time.March, 9})},
		{ID: "late-child", ParentID: "late", Due: due(testToday)},
		{ID: "later", Due: due(Date{2026, time.April, 1})},
		{ID: "undated"},
		{ID: "nested-today", ParentID: "undated", Due: due(testToday)},
	}
	s := NewStore(tasks)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"today keeps whole subtree", DueToday(), []string{"today", "today-child"}},
		{"overdue is strictly before today", Overdue(), []string{"late", "late-child"}},
		{"descendant match does not pull ancestor", DueToday(), []string{"today", "today-child"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := Rebuild(s, tt.filter, SortPriority, testToday)
			if diff := cmp.Diff(tt.want, list.IDs()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRebuildProjectFilter(t *testing.T) {
	s := NewStore(forest())
	list := Rebuild(s, Project("p1"), SortPriority, testToday)

	if diff := cmp.Diff([]string{"A", "B", "D", "C"}, list.IDs()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildPrioritySortIsStable(t *testing.T) {
	s := NewStore([]Task{
		{ID: "r3", Priority: 3},
		{ID: "r1a", Priority: 1},
		{ID: "r4", Priority: 4},
		{ID: "r1b", Priority: 1},
	})
	list := Rebuild(s, AllTasks(), SortPriority, testToday)

	if diff := cmp.Diff([]string{"r1a", "r1b", "r3", "r4"}, list.IDs()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildDateSort(t *testing.T) {
	s := NewStore([]Task{
		{ID: "none1"},
		{ID: "late", Due: due(Date{2026, time.May, 1})},
		{ID: "none2"},
		{ID: "early", Due: due(Date{2026, time.January, 1})},
		{ID: "unparsed", Due: &Due{String: "someday"}},
	})
	list := Rebuild(s, AllTasks(), SortDate, testToday)

	want := []string{"early", "late", "none1", "none2", "unparsed"}
	if diff := cmp.Diff(want, list.IDs()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildChildrenIgnoreCriterion(t *testing.T) {
	s := NewStore([]Task{
		{ID: "root", Priority: 1},
		{ID: "second", ParentID: "root", Order: 2, Priority: 1},
		{ID: "first", ParentID: "root", Order: 1, Priority: 4},
	})
	for _, c := range []SortCriterion{SortPriority, SortDate} {
		list := Rebuild(s, AllTasks(), c, testToday)
		if diff := cmp.Diff([]string{"root", "first", "second"}, list.IDs()); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", c, diff)
		}
	}
}

func TestExtremeOrdersSortAscending(t *testing.T) {
	s := NewStore([]Task{
		{ID: "R", Priority: 1},
		{ID: "hi", ParentID: "R", Order: math.MaxInt},
		{ID: "lo", ParentID: "R", Order: math.MinInt},
		{ID: "mid", ParentID: "R", Order: 0},
		{ID: "Rlow", Priority: math.MaxInt},
		{ID: "Rhigh", Priority: math.MinInt},
	})

	list := Rebuild(s, AllTasks(), SortPriority, testToday)
	want := []string{"Rhigh", "R", "lo", "mid", "hi", "Rlow"}
	if diff := cmp.Diff(want, list.IDs()); diff != "" {
		t.Errorf("Rebuild() mismatch (-want +got):\n%s", diff)
	}

	got, err := Descendants(s, "R")
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if diff := cmp.Diff([]string{"lo", "mid", "hi"}, got); diff != "" {
		t.Errorf("Descendants() mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildSurvivesCycle(t *testing.T) {
	s := NewStore([]Task{
		{ID: "root"},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
		{ID: "self", ParentID: "self"},
	})
	list := Rebuild(s, AllTasks(), SortPriority, testToday)
	if diff := cmp.Diff([]string{"root"}, list.IDs()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDescendants(t *testing.T) {
	s := NewStore(forest())

	got, err := Descendants(s, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "D", "C"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	leaf, err := Descendants(s, "D")
	if err != nil || len(leaf) != 0 {
		t.Errorf("leaf descendants = %v, %v", leaf, err)
	}

	if _, err := Descendants(s, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChildCounts(t *testing.T) {
	s := NewStore(append(forest(), Task{ID: "self", ParentID: "self"}))

	counts := s.ChildCounts()
	if diff := cmp.Diff(map[string]int{"A": 2, "B": 1, "X": 1}, counts); diff != "" {
		t.Errorf("ChildCounts() mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []string{"A", "B", "D", "X", "self"} {
		if got := s.ChildCount(id); got != counts[id] {
			t.Errorf("ChildCount(%s) = %d, ChildCounts says %d", id, got, counts[id])
		}
	}
}

func TestDescendantsDetectsCycle(t *testing.T) {
	s := NewStore([]Task{
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	})
	if _, err := Descendants(s, "x"); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestReanchor(t *testing.T) {
	oldList := newDisplayList([]Entry{{ID: "a"}, {ID: "b"}, {ID: "abc"}, {ID: "d"}})
	newList := newDisplayList([]Entry{{ID: "a"}, {ID: "abc"}, {ID: "d"}})
	empty := DisplayList{}

	tests := []struct {
		name       string
		old        Selection
		oldList    DisplayList
		newList    DisplayList
		autoSelect bool
		want       Selection
	}{
		{"follows identity", SelectAt(2), oldList, newList, false, SelectAt(1)},
		{"vanished falls back to first", SelectAt(1), oldList, newList, false, SelectAt(0)},
		{"vanished on empty list", SelectAt(1), oldList, empty, false, NoSelection()},
		{"none stays none", NoSelection(), oldList, newList, false, NoSelection()},
		{"none with auto select", NoSelection(), oldList, newList, true, SelectAt(0)},
		{"auto select on empty list", NoSelection(), oldList, empty, true, NoSelection()},
		{"out of range counts as none", SelectAt(9), oldList, newList, false, NoSelection()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reanchor(tt.old, tt.oldList, tt.newList, tt.autoSelect)
			if got != tt.want {
				t.Errorf("Reanchor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNavigationWraps(t *testing.T) {
	l := newDisplayList([]Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	if got := SelectAt(2).Next(l); got != SelectAt(0) {
		t.Errorf("Next from last = %+v", got)
	}
	if got := SelectAt(0).Previous(l); got != SelectAt(2) {
		t.Errorf("Previous from first = %+v", got)
	}
	if got := SelectAt(1).Next(l); got != SelectAt(2) {
		t.Errorf("Next = %+v", got)
	}
	if got := NoSelection().Next(l); got != SelectAt(0) {
		t.Errorf("Next from none = %+v", got)
	}
}

func TestNavigationOnEmptyList(t *testing.T) {
	var l DisplayList
	for _, s := range []Selection{NoSelection(), SelectAt(0), SelectAt(4)} {
		if !s.Next(l).IsNone() || !s.Previous(l).IsNone() {
			t.Errorf("navigation from %+v on empty list should yield none", s)
		}
	}
	if _, ok := SelectAt(0).ID(l); ok {
		t.Error("ID on empty list should report false")
	}
}

func TestCascadeRemoveCompleteness(t *testing.T) {
	s := NewStore(forest())
	list := Rebuild(s, AllTasks(), SortPriority, testToday)

	res, err := CascadeRemove(s, "A", list, SelectAt(1), AllTasks(), SortPriority, testToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"A", "B", "D", "C"}, res.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	for _, id := range res.Removed {
		if s.Has(id) {
			t.Errorf("%s still in store", id)
		}
		if res.List.Contains(id) {
			t.Errorf("%s still displayed", id)
		}
	}
	if !s.Has("E") || !s.Has("F") {
		t.Error("unrelated tasks must survive")
	}
}

func TestCascadeSelectionPrefersNextSurvivor(t *testing.T) {
	tasks := []Task{
		{ID: "r1", Priority: 1},
		{ID: "r2", Priority: 2},
		{ID: "r2a", ParentID: "r2", Order: 1},
		{ID: "r3", Priority: 3},
	}

	tests := []struct {
		name     string
		remove   string
		selected int
		wantID   string
	}{
		{"next survivor after subtree", "r2", 1, "r3"},
		{"previous survivor at the end", "r3", 3, "r2a"},
		{"removing a child keeps moving forward", "r2a", 2, "r3"},
		{"unrelated selection stays put", "r3", 0, "r1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tasks)
			list := Rebuild(s, AllTasks(), SortPriority, testToday)

			res, err := CascadeRemove(s, tt.remove, list, SelectAt(tt.selected), AllTasks(), SortPriority, testToday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := res.Selection.ID(res.List)
			if !ok || got != tt.wantID {
				t.Errorf("selected %q (%v), want %q", got, ok, tt.wantID)
			}
		})
	}
}

func TestCascadeLastTask(t *testing.T) {
	s := NewStore([]Task{{ID: "only"}, {ID: "kid", ParentID: "only"}})
	list := Rebuild(s, AllTasks(), SortPriority, testToday)

	res, err := CascadeRemove(s, "only", list, SelectAt(0), AllTasks(), SortPriority, testToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.List.Len() != 0 || !res.Selection.IsNone() {
		t.Errorf("expected empty list and no selection, got %d rows, %+v", res.List.Len(), res.Selection)
	}
}

func TestCascadeCycleLeavesStore(t *testing.T) {
	s := NewStore([]Task{{ID: "x", ParentID: "y"}, {ID: "y", ParentID: "x"}})
	if _, err := CascadeRemove(s, "x", DisplayList{}, NoSelection(), AllTasks(), SortPriority, testToday); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("store modified on error, len = %d", s.Len())
	}
}
