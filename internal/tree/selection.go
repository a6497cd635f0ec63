package tree

// Selection is an optional position in a display list. The zero value
// selects nothing.
type Selection struct {
	pos int
	ok  bool
}

// NoSelection returns the empty selection.
func NoSelection() Selection {
	return Selection{}
}

// SelectAt selects position pos. Negative positions select nothing.
func SelectAt(pos int) Selection {
	if pos < 0 {
		return Selection{}
	}
	return Selection{pos: pos, ok: true}
}

// SelectID selects id in l, or nothing when l does not show it.
func SelectID(l DisplayList, id string) Selection {
	if i, ok := l.IndexOf(id); ok {
		return SelectAt(i)
	}
	return Selection{}
}

// First selects the first row of l.
func First(l DisplayList) Selection {
	if l.Len() == 0 {
		return Selection{}
	}
	return SelectAt(0)
}

// Last selects the last row of l.
func Last(l DisplayList) Selection {
	if l.Len() == 0 {
		return Selection{}
	}
	return SelectAt(l.Len() - 1)
}

// Position returns the selected position, if any.
func (s Selection) Position() (int, bool) {
	return s.pos, s.ok
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool {
	return !s.ok
}

// In reports whether s points at a row that exists in l.
func (s Selection) In(l DisplayList) bool {
	return s.ok && s.pos >= 0 && s.pos < l.Len()
}

// ID returns the task id under s in l. A position outside l counts as
// nothing selected.
func (s Selection) ID(l DisplayList) (string, bool) {
	if !s.ok {
		return "", false
	}
	return l.IDAt(s.pos)
}

// Next advances one row, wrapping from the last row to the first.
func (s Selection) Next(l DisplayList) Selection {
	n := l.Len()
	if n == 0 {
		return Selection{}
	}
	if !s.In(l) {
		return SelectAt(0)
	}
	return SelectAt((s.pos + 1) % n)
}

// Previous retreats one row, wrapping from the first row to the last.
func (s Selection) Previous(l DisplayList) Selection {
	n := l.Len()
	if n == 0 {
		return Selection{}
	}
	if !s.In(l) {
		return SelectAt(n - 1)
	}
	return SelectAt((s.pos - 1 + n) % n)
}

// Reanchor carries a selection across a rebuild by task identity. An empty
// old selection stays empty unless autoSelect asks for the first row. A
// selected task that vanished falls back to the first row.
func Reanchor(old Selection, oldList, newList DisplayList, autoSelect bool) Selection {
	id, ok := old.ID(oldList)
	if !ok {
		if autoSelect {
			return First(newList)
		}
		return Selection{}
	}
	if i, found := newList.IndexOf(id); found {
		return SelectAt(i)
	}
	return First(newList)
}
