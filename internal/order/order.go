// SPDX-License-Identifier: MIT

// Package order derives the final application order of merged fragments.
// Lower-numbered fragments are read first by the downstream consumer; the
// resolver guarantees a stable, reproducible linear order and nothing more —
// it never interprets rule semantics.
package order

import (
	"fmt"
	"sort"

	"github.com/fontbuild/fontconf/internal/fragment"
	"github.com/fontbuild/fontconf/internal/merge"
)

// Error reports a violated ordering invariant. It indicates a bug in the
// merger and should never occur in normal operation.
type Error struct {
	Priority int
	Name     string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ordering invariant violated for fragment %q (priority %d): %s",
		e.Name, e.Priority, e.Reason)
}

// Resolve returns the merged directory's fragments in final application order.
func Resolve(dir *merge.Directory) ([]fragment.Fragment, error) {
	entries := dir.Entries()
	frags := make([]fragment.Fragment, 0, len(entries))
	for _, e := range entries {
		frags = append(frags, e.Fragment)
	}
	return Order(frags)
}

// Order sorts fragments by ascending (priority, name) and validates the
// ordering invariants: every priority is non-negative and no (priority, name)
// pair appears twice. The merger's collision handling already prevents
// duplicates, so the second check is a defensive double-check. The input
// slice is not modified.
func Order(frags []fragment.Fragment) ([]fragment.Fragment, error) {
	sorted := make([]fragment.Fragment, len(frags))
	copy(sorted, frags)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})

	for i, f := range sorted {
		if f.Priority < 0 {
			return nil, &Error{Priority: f.Priority, Name: f.Name, Reason: "priority must be non-negative"}
		}
		if i > 0 && sorted[i-1].Priority == f.Priority && sorted[i-1].Name == f.Name {
			return nil, &Error{Priority: f.Priority, Name: f.Name, Reason: "duplicate (priority, name) pair"}
		}
	}

	return sorted, nil
}
