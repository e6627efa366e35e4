// SPDX-License-Identifier: MIT

// Package merge folds contributing packages into a single merged
// configuration directory, resolving cross-package fragment collisions
// according to an explicit policy.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fontbuild/fontconf/internal/fragment"
	"github.com/fontbuild/fontconf/internal/metrics"
)

// Policy decides which package wins when two packages emit a fragment at the
// same final path.
type Policy int

const (
	// LastWins lets the later package in merge order override earlier ones.
	// Shadowed contributors are still recorded for diagnostics.
	LastWins Policy = iota
	// FirstWins keeps the earliest contribution and shadows later ones.
	FirstWins
	// Strict fails the merge with a CollisionError on any duplicate path.
	Strict
)

func (p Policy) String() string {
	switch p {
	case LastWins:
		return "last-wins"
	case FirstWins:
		return "first-wins"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Contribution identifies a package's fragment that lost a collision.
type Contribution struct {
	Package string
	Name    string
}

// Entry is one winning fragment in the merged directory, with provenance of
// who contributed it and who was shadowed.
type Entry struct {
	Fragment fragment.Fragment
	Package  string
	Shadowed []Contribution
}

// Directory is the merge output: a mapping from final file path to exactly
// one winning fragment. No two entries share a path.
type Directory struct {
	entries map[string]Entry
	width   int
}

// Entries returns the path → entry mapping.
func (d *Directory) Entries() map[string]Entry {
	return d.entries
}

// Entry returns the entry at the given path, if present.
func (d *Directory) Entry(path string) (Entry, bool) {
	e, ok := d.entries[path]
	return e, ok
}

// PrefixWidth is the zero-padding width used for every path in the directory.
func (d *Directory) PrefixWidth() int {
	return d.width
}

// Paths returns all final paths in lexicographic order.
func (d *Directory) Paths() []string {
	paths := make([]string, 0, len(d.entries))
	for p := range d.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// CollisionError reports a strict-mode path conflict, naming every package
// that tried to write the same path.
type CollisionError struct {
	Path     string
	Packages []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("fragment collision at %q between packages: %s",
		e.Path, strings.Join(e.Packages, ", "))
}

// Merger combines fragments from multiple contributing packages. Content is
// treated as opaque bytes; only path identity participates in collisions.
type Merger struct {
	policy Policy
}

// New creates a merger with the given collision policy.
func New(policy Policy) *Merger {
	return &Merger{policy: policy}
}

// Merge folds the packages, in the order given, into one directory. Either
// the whole directory is produced or none of it: on error no partial result
// is returned.
func (m *Merger) Merge(packages []fragment.Package) (*Directory, error) {
	width := fragment.PrefixWidth(maxPriority(packages))

	entries := make(map[string]Entry)
	for _, pkg := range packages {
		for _, f := range pkg.Fragments {
			path := f.FileName(width)
			prev, taken := entries[path]
			if !taken {
				entries[path] = Entry{Fragment: f, Package: pkg.Name}
				continue
			}

			if m.policy == Strict {
				return nil, collisionAt(path, packages, width)
			}

			metrics.FragmentsShadowedTotal.Inc()
			if m.policy == FirstWins {
				prev.Shadowed = append(prev.Shadowed, Contribution{Package: pkg.Name, Name: f.Name})
				entries[path] = prev
				continue
			}

			// LastWins: the newcomer takes the path, inheriting the shadow list.
			shadowed := append(prev.Shadowed, Contribution{Package: prev.Package, Name: prev.Fragment.Name})
			entries[path] = Entry{Fragment: f, Package: pkg.Name, Shadowed: shadowed}
		}
	}

	return &Directory{entries: entries, width: width}, nil
}

// collisionAt gathers every contributor to the colliding path so the error
// names all of them, not just the pair that tripped the check.
func collisionAt(path string, packages []fragment.Package, width int) *CollisionError {
	var contributors []string
	for _, pkg := range packages {
		for _, f := range pkg.Fragments {
			if f.FileName(width) == path {
				contributors = append(contributors, pkg.Name)
			}
		}
	}
	return &CollisionError{Path: path, Packages: contributors}
}

func maxPriority(packages []fragment.Package) int {
	max := 0
	for _, pkg := range packages {
		for _, f := range pkg.Fragments {
			if f.Priority > max {
				max = f.Priority
			}
		}
	}
	return max
}
