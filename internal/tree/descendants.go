package tree

import "fmt"

// Descendants returns every transitive child of id, depth-first, with a
// child always ahead of its own children and siblings in ascending Order.
// id itself is not included. A parent chain that loops back on itself
// yields ErrCycle instead of recursing forever.
func Descendants(s *Store, id string) ([]string, error) {
	if !s.Has(id) {
		return nil, fmt.Errorf("descendants of %s: %w", id, ErrNotFound)
	}

	children := s.childIndex()
	var out []string
	onPath := map[string]bool{id: true}

	var walk func(parent string) error
	walk = func(parent string) error {
		for _, child := range children[parent] {
			if onPath[child] {
				return fmt.Errorf("descendants of %s: %w at %s", id, ErrCycle, child)
			}
			out = append(out, child)
			onPath[child] = true
			if err := walk(child); err != nil {
				return err
			}
			delete(onPath, child)
		}
		return nil
	}

	if err := walk(id); err != nil {
		return nil, err
	}
	return out, nil
}

// Subtree returns id followed by Descendants(id).
func Subtree(s *Store, id string) ([]string, error) {
	desc, err := Descendants(s, id)
	if err != nil {
		return nil, err
	}
	return append([]string{id}, desc...), nil
}
