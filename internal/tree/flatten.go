package tree

// Entry is one row of the display list.
type Entry struct {
	ID    string
	Depth int
}

// DisplayList is the filtered, ordered, depth-first sequence of task ids
// the interface renders. It is rebuilt wholesale and never edited in place.
type DisplayList struct {
	entries []Entry
	pos     map[string]int
}

func newDisplayList(entries []Entry) DisplayList {
	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[e.ID] = i
	}
	return DisplayList{entries: entries, pos: pos}
}

// Len returns the number of rows.
func (l DisplayList) Len() int {
	return len(l.entries)
}

// At returns the entry at i. Out-of-range positions report false.
func (l DisplayList) At(i int) (Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[i], true
}

// IDAt returns the task id at i.
func (l DisplayList) IDAt(i int) (string, bool) {
	e, ok := l.At(i)
	return e.ID, ok
}

// IndexOf returns the position of id.
func (l DisplayList) IndexOf(id string) (int, bool) {
	i, ok := l.pos[id]
	return i, ok
}

// Contains reports whether id is shown.
func (l DisplayList) Contains(id string) bool {
	_, ok := l.pos[id]
	return ok
}

// Entries returns a copy of the rows.
func (l DisplayList) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// IDs returns the task ids in display order.
func (l DisplayList) IDs() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.ID
	}
	return out
}

// Rebuild flattens the store into a display list. Roots matching f are
// ordered by c; below them children follow in ascending Order. Tasks whose
// parent is missing from the store are unreachable and silently dropped.
// The store is not modified.
func Rebuild(s *Store, f Filter, c SortCriterion, today Date) DisplayList {
	var roots []Task
	for _, t := range s.tasks {
		if t.IsRoot() && f.Matches(t, today) {
			roots = append(roots, t)
		}
	}
	sortRoots(roots, c)

	children := s.childIndex()
	entries := make([]Entry, 0, len(s.tasks))
	visited := make(map[string]bool, len(s.tasks))

	var emit func(id string, depth int)
	emit = func(id string, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true
		entries = append(entries, Entry{ID: id, Depth: depth})
		for _, child := range children[id] {
			emit(child, depth+1)
		}
	}

	for _, r := range roots {
		emit(r.ID, 0)
	}

	return newDisplayList(entries)
}
