package tree

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotFound is returned when an operation names a task the store does not hold.
	ErrNotFound = errors.New("task not found")
	// ErrCycle is returned when following parent links revisits a task.
	ErrCycle = errors.New("cyclic parent reference")
)

// Store is the flat, owned collection of tasks. Parent/child structure is
// expressed only through ParentID back-references. Store is not safe for
// concurrent use; it belongs to the interface's update loop.
type Store struct {
	tasks []Task
	index map[string]int
}

// NewStore returns a store holding a copy of tasks.
func NewStore(tasks []Task) *Store {
	s := &Store{}
	s.Replace(tasks)
	return s
}

// Replace swaps the whole collection, as after a full resync. When ids
// repeat, the last occurrence wins.
func (s *Store) Replace(tasks []Task) {
	s.tasks = make([]Task, 0, len(tasks))
	s.index = make(map[string]int, len(tasks))
	for _, t := range tasks {
		if i, ok := s.index[t.ID]; ok {
			s.tasks[i] = t.Clone()
			continue
		}
		s.index[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, t.Clone())
	}
}

// Len returns the number of tasks held.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of every task, in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Has reports whether the store holds id.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Children returns the direct children of id in insertion order.
func (s *Store) Children(id string) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.ParentID == id && t.ID != id {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ChildCount returns how many tasks name id as their parent.
func (s *Store) ChildCount(id string) int {
	n := 0
	for _, t := range s.tasks {
		if t.ParentID == id && t.ID != id {
			n++
		}
	}
	return n
}

// ChildCounts returns the number of direct children for every task that has any.
func (s *Store) ChildCounts() map[string]int {
	counts := make(map[string]int)
	for _, t := range s.tasks {
		if t.ParentID != "" && t.ParentID != t.ID {
			counts[t.ParentID]++
		}
	}
	return counts
}

// Add inserts t, replacing any task with the same id.
func (s *Store) Add(t Task) {
	if i, ok := s.index[t.ID]; ok {
		s.tasks[i] = t.Clone()
		return
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t.Clone())
}

// Update applies fn to the stored task with the given id. fn must not
// change the task's ID.
func (s *Store) Update(id string, fn func(*Task)) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	t := s.tasks[i].Clone()
	fn(&t)
	t.ID = id
	s.tasks[i] = t
	return nil
}

// Remove deletes every listed id that is present and returns how many were removed.
func (s *Store) Remove(ids ...string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool {
		_, ok := drop[t.ID]
		return ok
	})
	s.reindex()
	return len(drop)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		s.index[t.ID] = i
	}
}

// childIndex groups ids by parent, each group ordered by Order with ties
// kept in insertion order.
func (s *Store) childIndex() map[string][]string {
	byParent := make(map[string][]Task)
	for _, t := range s.tasks {
		if t.ParentID == "" || t.ParentID == t.ID {
			continue
		}
		byParent[t.ParentID] = append(byParent[t.ParentID], t)
	}

	out := make(map[string][]string, len(byParent))
	for parent, kids := range byParent {
		slices.SortStableFunc(kids, func(a, b Task) int {
			return cmp.Compare(a.Order, b.Order)
		})
		ids := make([]string, len(kids))
		for i, k := range kids {
			ids[i] = k.ID
		}
		out[parent] = ids
	}
	return out
}
