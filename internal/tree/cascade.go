package tree

// CascadeResult is the outcome of removing a subtree.
type CascadeResult struct {
	// Removed lists the removed ids, the named task first, then its
	// descendants depth-first. Remote calls should be issued in this order.
	Removed   []string
	List      DisplayList
	Selection Selection
}

// CascadeRemove removes id and all of its descendants from s, rebuilds the
// display list and re-anchors sel. When the selected task was part of the
// removed subtree the selection moves to the next surviving row of the old
// list, then to the nearest surviving row above it, then to the first row.
// On error s is left untouched.
func CascadeRemove(s *Store, id string, list DisplayList, sel Selection, f Filter, c SortCriterion, today Date) (CascadeResult, error) {
	removed, err := Subtree(s, id)
	if err != nil {
		return CascadeResult{}, err
	}

	s.Remove(removed...)
	next := Rebuild(s, f, c, today)

	return CascadeResult{
		Removed:   removed,
		List:      next,
		Selection: reanchorAfterRemoval(sel, list, next, removed),
	}, nil
}

func reanchorAfterRemoval(sel Selection, oldList, newList DisplayList, removed []string) Selection {
	pos, ok := sel.Position()
	if !ok || !sel.In(oldList) {
		return Reanchor(sel, oldList, newList, false)
	}

	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}

	selectedID, _ := oldList.IDAt(pos)
	if !gone[selectedID] {
		return Reanchor(sel, oldList, newList, false)
	}

	for i := pos + 1; i < oldList.Len(); i++ {
		id, _ := oldList.IDAt(i)
		if gone[id] {
			continue
		}
		if j, found := newList.IndexOf(id); found {
			return SelectAt(j)
		}
	}
	for i := pos - 1; i >= 0; i-- {
		id, _ := oldList.IDAt(i)
		if gone[id] {
			continue
		}
		if j, found := newList.IndexOf(id); found {
			return SelectAt(j)
		}
	}
	return First(newList)
}
