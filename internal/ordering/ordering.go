// Package ordering computes roster orders after a drag-and-drop move.
//
// All functions are pure: they never mutate their input and always return a
// fresh slice.
package ordering

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

// Reorder moves the entry movedID into the position currently held by
// targetID and renumbers the result so that order equals index.
//
// The list is expected to be sorted by order. If movedID equals targetID and
// the entry is present the result is an unchanged copy. If either id is absent
// Reorder returns an error wrapping model.ErrNotFound and the input is left
// untouched.
func Reorder(list []model.Entry, movedID, targetID uuid.UUID) ([]model.Entry, error) {
	from := indexOf(list, movedID)
	if from < 0 {
		return nil, fmt.Errorf("moved entry %s: %w", movedID, model.ErrNotFound)
	}
	if movedID == targetID {
		return slices.Clone(list), nil
	}
	to := indexOf(list, targetID)
	if to < 0 {
		return nil, fmt.Errorf("target entry %s: %w", targetID, model.ErrNotFound)
	}

	out := slices.Clone(list)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)

	return Renumber(out), nil
}

// Renumber returns a copy of list with each entry's order set to its index.
func Renumber(list []model.Entry) []model.Entry {
	out := slices.Clone(list)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Compact removes the entry id and renumbers the remainder.
// A missing id yields a renumbered copy of the input.
func Compact(list []model.Entry, id uuid.UUID) []model.Entry {
	out := slices.DeleteFunc(slices.Clone(list), func(e model.Entry) bool {
		return e.ID == id
	})
	return Renumber(out)
}

// IDs returns entry ids in list order.
func IDs(list []model.Entry) []uuid.UUID {
	ids := make([]uuid.UUID, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return ids
}

// Changed returns the entries of after whose order differs from the
// entry with the same id in before. Entries missing from before count as
// changed.
func Changed(before, after []model.Entry) []model.Entry {
	prev := make(map[uuid.UUID]int, len(before))
	for _, e := range before {
		prev[e.ID] = e.Order
	}

	var out []model.Entry
	for _, e := range after {
		if o, ok := prev[e.ID]; !ok || o != e.Order {
			out = append(out, e)
		}
	}
	return out
}

// Sort returns a copy of list sorted by order, ties broken by creation time.
func Sort(list []model.Entry) []model.Entry {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b model.Entry) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func indexOf(list []model.Entry, id uuid.UUID) int {
	return slices.IndexFunc(list, func(e model.Entry) bool { return e.ID == id })
}
