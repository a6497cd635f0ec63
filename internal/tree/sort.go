package tree

import (
	"cmp"
	"fmt"
	"slices"
)

// SortCriterion orders root tasks. Deeper levels always use Order.
type SortCriterion int

const (
	SortPriority SortCriterion = iota
	SortDate
)

// Toggle switches between the two criteria.
func (c SortCriterion) Toggle() SortCriterion {
	if c == SortPriority {
		return SortDate
	}
	return SortPriority
}

func (c SortCriterion) String() string {
	if c == SortDate {
		return "date"
	}
	return "priority"
}

// ParseSort parses "priority" or "date". The empty string means priority.
func ParseSort(s string) (SortCriterion, error) {
	switch s {
	case "", "priority":
		return SortPriority, nil
	case "date":
		return SortDate, nil
	}
	return SortPriority, fmt.Errorf("unknown sort %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c SortCriterion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *SortCriterion) UnmarshalText(b []byte) error {
	parsed, err := ParseSort(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// sortRoots orders roots in place. The sort is stable, so equal-ranked
// roots keep their store order.
func sortRoots(roots []Task, c SortCriterion) {
	switch c {
	case SortDate:
		slices.SortStableFunc(roots, compareDue)
	default:
		slices.SortStableFunc(roots, func(a, b Task) int {
			return cmp.Compare(a.Priority, b.Priority)
		})
	}
}

// compareDue ranks dated tasks ascending and undated tasks after all of them.
func compareDue(a, b Task) int {
	ad, bd := dueDate(a), dueDate(b)
	switch {
	case ad == nil && bd == nil:
		return 0
	case ad == nil:
		return 1
	case bd == nil:
		return -1
	case ad.Before(*bd):
		return -1
	case bd.Before(*ad):
		return 1
	default:
		return 0
	}
}

func dueDate(t Task) *Date {
	if t.Due == nil || t.Due.Date.IsZero() {
		return nil
	}
	return &t.Due.Date
}
