// SPDX-License-Identifier: MIT

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fontbuild/fontconf/internal/fragment"
	"github.com/fontbuild/fontconf/internal/merge"
)

func TestOrder_SortsByPriorityThenName(t *testing.T) {
	frags := []fragment.Fragment{
		{Name: "no-type1", Priority: 53},
		{Name: "rendering", Priority: 10},
		{Name: "cache", Priority: 0},
		{Name: "no-bitmaps", Priority: 53},
		{Name: "default-fonts", Priority: 52},
	}

	got, err := Order(frags)
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"cache", "rendering", "default-fonts", "no-bitmaps", "no-type1"}, names)
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	frags := []fragment.Fragment{
		{Name: "b", Priority: 2},
		{Name: "a", Priority: 1},
	}

	_, err := Order(frags)
	require.NoError(t, err)
	assert.Equal(t, "b", frags[0].Name, "input slice must stay untouched")
}

func TestOrder_RejectsNegativePriority(t *testing.T) {
	_, err := Order([]fragment.Fragment{{Name: "bad", Priority: -1}})
	require.Error(t, err)

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, -1, oerr.Priority)
	assert.Equal(t, "bad", oerr.Name)
}

func TestOrder_RejectsDuplicatePair(t *testing.T) {
	_, err := Order([]fragment.Fragment{
		{Name: "rendering", Priority: 10, SourcePackage: "a"},
		{Name: "rendering", Priority: 10, SourcePackage: "b"},
	})
	require.Error(t, err)

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, 10, oerr.Priority)
	assert.Equal(t, "rendering", oerr.Name)
}

func TestResolve_FromMergedDirectory(t *testing.T) {
	pkg, err := fragment.NewPackage("gen", []fragment.Fragment{
		{Name: "rendering", Priority: 10},
		{Name: "cache", Priority: 0},
	})
	require.NoError(t, err)

	dir, err := merge.New(merge.LastWins).Merge([]fragment.Package{pkg})
	require.NoError(t, err)

	got, err := Resolve(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cache", got[0].Name)
	assert.Equal(t, "rendering", got[1].Name)
}

// genFragments draws a set of fragments with unique (priority, name) pairs,
// mirroring what any merged directory can contain.
func genFragments(t *rapid.T) []fragment.Fragment {
	type pair struct {
		priority int
		name     string
	}
	n := rapid.IntRange(0, 20).Draw(t, "count")
	seen := make(map[pair]struct{})
	frags := make([]fragment.Fragment, 0, n)
	for i := 0; i < n; i++ {
		prio := rapid.IntRange(0, 150).Draw(t, "priority")
		name := rapid.StringMatching(`[a-z][a-z0-9-]{0,12}`).Draw(t, "name")
		key := pair{priority: prio, name: name}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		frags = append(frags, fragment.Fragment{Name: name, Priority: prio})
	}
	return frags
}

func TestOrder_TotalOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frags := genFragments(t)

		sorted, err := Order(frags)
		if err != nil {
			t.Fatalf("unexpected ordering error: %v", err)
		}
		if len(sorted) != len(frags) {
			t.Fatalf("ordering changed cardinality: %d != %d", len(sorted), len(frags))
		}

		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if prev.Priority > cur.Priority {
				t.Fatalf("priority order violated at %d: %d > %d", i, prev.Priority, cur.Priority)
			}
			if prev.Priority == cur.Priority && prev.Name >= cur.Name {
				t.Fatalf("name tie-break violated at %d: %q >= %q", i, prev.Name, cur.Name)
			}
		}
	})
}

func TestOrder_IdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frags := genFragments(t)

		once, err := Order(frags)
		if err != nil {
			t.Fatalf("unexpected ordering error: %v", err)
		}
		twice, err := Order(once)
		if err != nil {
			t.Fatalf("unexpected ordering error on re-sort: %v", err)
		}
		assert.Equal(t, once, twice, "re-sorting a sorted sequence must be a no-op")
	})
}
