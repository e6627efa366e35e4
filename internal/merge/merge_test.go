// SPDX-License-Identifier: MIT

package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontbuild/fontconf/internal/fragment"
)

func mkpkg(t *testing.T, name string, frags ...fragment.Fragment) fragment.Package {
	t.Helper()
	pkg, err := fragment.NewPackage(name, frags)
	require.NoError(t, err)
	return pkg
}

func TestMerge_DisjointPackages(t *testing.T) {
	p1 := mkpkg(t, "base", fragment.Fragment{Name: "cache", Priority: 0, Content: []byte("c")})
	p2 := mkpkg(t, "extra", fragment.Fragment{Name: "rendering", Priority: 10, Content: []byte("r")})

	dir, err := New(LastWins).Merge([]fragment.Package{p1, p2})
	require.NoError(t, err)

	require.Len(t, dir.Entries(), 2)
	e, ok := dir.Entry("00-cache.conf")
	require.True(t, ok)
	assert.Equal(t, "base", e.Package)
	assert.Empty(t, e.Shadowed)
}

func TestMerge_LastWinsRecordsShadowed(t *testing.T) {
	p1 := mkpkg(t, "base", fragment.Fragment{Name: "rendering", Priority: 10, Content: []byte("from-base")})
	p2 := mkpkg(t, "override", fragment.Fragment{Name: "rendering", Priority: 10, Content: []byte("from-override")})

	dir, err := New(LastWins).Merge([]fragment.Package{p1, p2})
	require.NoError(t, err)

	e, ok := dir.Entry("10-rendering.conf")
	require.True(t, ok)
	assert.Equal(t, "override", e.Package)
	assert.Equal(t, []byte("from-override"), e.Fragment.Content)

	want := []Contribution{{Package: "base", Name: "rendering"}}
	if diff := cmp.Diff(want, e.Shadowed); diff != "" {
		t.Fatalf("shadowed provenance mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_LastWinsChainsShadows(t *testing.T) {
	frag := func(content string) fragment.Fragment {
		return fragment.Fragment{Name: "x", Priority: 5, Content: []byte(content)}
	}
	pkgs := []fragment.Package{
		mkpkg(t, "one", frag("1")),
		mkpkg(t, "two", frag("2")),
		mkpkg(t, "three", frag("3")),
	}

	dir, err := New(LastWins).Merge(pkgs)
	require.NoError(t, err)

	e, _ := dir.Entry("05-x.conf")
	assert.Equal(t, "three", e.Package)
	assert.Equal(t, []Contribution{
		{Package: "one", Name: "x"},
		{Package: "two", Name: "x"},
	}, e.Shadowed)
}

func TestMerge_FirstWins(t *testing.T) {
	p1 := mkpkg(t, "base", fragment.Fragment{Name: "rendering", Priority: 10, Content: []byte("from-base")})
	p2 := mkpkg(t, "late", fragment.Fragment{Name: "rendering", Priority: 10, Content: []byte("from-late")})

	dir, err := New(FirstWins).Merge([]fragment.Package{p1, p2})
	require.NoError(t, err)

	e, ok := dir.Entry("10-rendering.conf")
	require.True(t, ok)
	assert.Equal(t, "base", e.Package)
	assert.Equal(t, []byte("from-base"), e.Fragment.Content)
	assert.Equal(t, []Contribution{{Package: "late", Name: "rendering"}}, e.Shadowed)
}

func TestMerge_StrictFailsWithAllContributors(t *testing.T) {
	p1 := mkpkg(t, "base", fragment.Fragment{Name: "rendering", Priority: 10})
	p2 := mkpkg(t, "dupe", fragment.Fragment{Name: "rendering", Priority: 10})

	dir, err := New(Strict).Merge([]fragment.Package{p1, p2})
	require.Error(t, err)
	assert.Nil(t, dir, "no partial directory may be exposed on collision")

	var cerr *CollisionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "10-rendering.conf", cerr.Path)
	assert.Equal(t, []string{"base", "dupe"}, cerr.Packages)
}

func TestMerge_StrictPassesWithoutCollision(t *testing.T) {
	p1 := mkpkg(t, "base", fragment.Fragment{Name: "cache", Priority: 0})
	p2 := mkpkg(t, "extra", fragment.Fragment{Name: "rendering", Priority: 10})

	_, err := New(Strict).Merge([]fragment.Package{p1, p2})
	assert.NoError(t, err)
}

func TestMerge_SamePriorityDifferentNamesCoexist(t *testing.T) {
	// Orthogonal same-priority fragments (e.g. "no-bitmaps" vs
	// "use-embedded-bitmaps") are not collisions.
	p := mkpkg(t, "gen",
		fragment.Fragment{Name: "no-bitmaps", Priority: 53},
		fragment.Fragment{Name: "use-embedded-bitmaps", Priority: 53},
	)

	dir, err := New(Strict).Merge([]fragment.Package{p})
	require.NoError(t, err)
	assert.Len(t, dir.Entries(), 2)
}

func TestMerge_WidensPrefixForLargePriorities(t *testing.T) {
	p := mkpkg(t, "gen",
		fragment.Fragment{Name: "cache", Priority: 0},
		fragment.Fragment{Name: "late", Priority: 104},
	)

	dir, err := New(LastWins).Merge([]fragment.Package{p})
	require.NoError(t, err)
	assert.Equal(t, 3, dir.PrefixWidth())
	assert.Equal(t, []string{"000-cache.conf", "104-late.conf"}, dir.Paths())
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "last-wins", LastWins.String())
	assert.Equal(t, "first-wins", FirstWins.String())
	assert.Equal(t, "strict", Strict.String())
}
