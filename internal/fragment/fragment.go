// SPDX-License-Identifier: MIT

// Package fragment defines the prioritized configuration fragment model and
// the store that materializes the canonical fragment set from settings.
package fragment

import (
	"fmt"
)

// Fragment is a single named, prioritized unit of configuration content.
// Content is opaque to everything downstream of the store; only the
// (priority, name) identity participates in merging and ordering.
type Fragment struct {
	Name          string
	Priority      int
	Content       []byte
	SourcePackage string
}

// PrefixWidth returns the zero-padding width for numeric file-name prefixes.
// Two digits minimum; widened when priorities exceed 99 so lexicographic
// order of file names stays equal to numeric priority order.
func PrefixWidth(maxPriority int) int {
	width := 2
	for maxPriority > 99 {
		width++
		maxPriority /= 10
	}
	return width
}

// FileName returns the final file name for the fragment, e.g. "10-rendering.conf".
// The width is decided once per assembled directory, over all fragments.
func (f Fragment) FileName(width int) string {
	return fmt.Sprintf("%0*d-%s.conf", width, f.Priority, f.Name)
}

// Package is an ordered list of fragments plus a stable identity used for
// merge tie-breaking and collision diagnostics. It is constructed once per
// build request and never mutated afterwards.
type Package struct {
	Name      string
	Fragments []Fragment
}

// NewPackage builds a contributing package, stamping each fragment with the
// package identity. Fragment names must be unique within a package; cross
// package collisions are the merger's business, not ours.
func NewPackage(name string, fragments []Fragment) (Package, error) {
	seen := make(map[string]struct{}, len(fragments))
	stamped := make([]Fragment, len(fragments))
	for i, f := range fragments {
		if _, dup := seen[f.Name]; dup {
			return Package{}, fmt.Errorf("package %q: duplicate fragment name %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}
		f.SourcePackage = name
		stamped[i] = f
	}
	return Package{Name: name, Fragments: stamped}, nil
}
