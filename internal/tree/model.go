package tree

// Model bundles the store with the active filter, sort criterion, display
// list and selection, and keeps them consistent: every mutation rebuilds
// the list and re-anchors the selection before returning.
type Model struct {
	store  *Store
	clock  Clock
	filter Filter
	sort   SortCriterion
	list   DisplayList
	sel    Selection
}

// NewModel returns an empty model. A nil clock uses the system clock.
func NewModel(clock Clock) *Model {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Model{
		store:  NewStore(nil),
		clock:  clock,
		filter: AllTasks(),
		sort:   SortPriority,
	}
}

// Store exposes the underlying store for read access.
func (m *Model) Store() *Store { return m.store }

// List returns the current display list.
func (m *Model) List() DisplayList { return m.list }

// Selection returns the current selection.
func (m *Model) Selection() Selection { return m.sel }

// Filter returns the active filter.
func (m *Model) Filter() Filter { return m.filter }

// Sort returns the active sort criterion.
func (m *Model) Sort() SortCriterion { return m.sort }

// Today returns the clock's current date.
func (m *Model) Today() Date { return m.clock.Today() }

// SelectedID returns the id of the selected task.
func (m *Model) SelectedID() (string, bool) {
	return m.sel.ID(m.list)
}

// Selected returns the selected task.
func (m *Model) Selected() (Task, bool) {
	id, ok := m.SelectedID()
	if !ok {
		return Task{}, false
	}
	return m.store.Get(id)
}

// Load replaces every task, as after a fetch or a snapshot restore.
func (m *Model) Load(tasks []Task, autoSelect bool) {
	m.store.Replace(tasks)
	m.rebuild(autoSelect)
}

// SetFilter switches the active filter.
func (m *Model) SetFilter(f Filter, autoSelect bool) {
	m.filter = f
	m.rebuild(autoSelect)
}

// SetSort switches the root ordering.
func (m *Model) SetSort(c SortCriterion) {
	m.sort = c
	m.rebuild(false)
}

// Refresh rebuilds with unchanged inputs, picking up a new "today".
func (m *Model) Refresh() {
	m.rebuild(false)
}

// Upsert inserts or replaces a task.
func (m *Model) Upsert(t Task) {
	m.store.Add(t)
	m.rebuild(false)
}

// Edit applies fn to the task with the given id.
func (m *Model) Edit(id string, fn func(*Task)) error {
	if err := m.store.Update(id, fn); err != nil {
		return err
	}
	m.rebuild(false)
	return nil
}

// Cascade removes id with its whole subtree and returns the removed ids,
// id first. The model is unchanged when an error is returned.
func (m *Model) Cascade(id string) ([]string, error) {
	res, err := CascadeRemove(m.store, id, m.list, m.sel, m.filter, m.sort, m.clock.Today())
	if err != nil {
		return nil, err
	}
	m.list = res.List
	m.sel = res.Selection
	return res.Removed, nil
}

// Next moves the selection down one row, wrapping.
func (m *Model) Next() { m.sel = m.sel.Next(m.list) }

// Previous moves the selection up one row, wrapping.
func (m *Model) Previous() { m.sel = m.sel.Previous(m.list) }

// First selects the top row.
func (m *Model) First() { m.sel = First(m.list) }

// Last selects the bottom row.
func (m *Model) Last() { m.sel = Last(m.list) }

// ClearSelection drops the selection.
func (m *Model) ClearSelection() { m.sel = NoSelection() }

// SelectPosition selects row i if it exists.
func (m *Model) SelectPosition(i int) bool {
	s := SelectAt(i)
	if !s.In(m.list) {
		return false
	}
	m.sel = s
	return true
}

// SelectTask selects id if it is shown.
func (m *Model) SelectTask(id string) bool {
	s := SelectID(m.list, id)
	if s.IsNone() {
		return false
	}
	m.sel = s
	return true
}

func (m *Model) rebuild(autoSelect bool) {
	next := Rebuild(m.store, m.filter, m.sort, m.clock.Today())
	m.sel = Reanchor(m.sel, m.list, next, autoSelect)
	m.list = next
}
