// SPDX-License-Identifier: MIT

// Package discovery supplies the list of installed font directories.
package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Lister is the font/package discovery collaborator.
type Lister interface {
	ListFontPackages(ctx context.Context) ([]string, error)
}

// fontExtensions are the file suffixes that mark a directory as a font directory.
var fontExtensions = map[string]struct{}{
	".ttf":   {},
	".ttc":   {},
	".otf":   {},
	".otc":   {},
	".pcf":   {},
	".pfb":   {},
	".pfa":   {},
	".bdf":   {},
	".woff":  {},
	".woff2": {},
}

// DirLister discovers font directories by walking a root of installed font
// packages. A directory qualifies when it directly contains at least one
// font file.
type DirLister struct {
	Root string
}

// ListFontPackages implements Lister. The result is sorted and duplicate-free.
func (d *DirLister) ListFontPackages(ctx context.Context) ([]string, error) {
	found := make(map[string]struct{})
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := fontExtensions[ext]; ok {
			found[filepath.Dir(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Static is a fixed directory list, mainly for composition and tests.
type Static []string

// ListFontPackages implements Lister.
func (s Static) ListFontPackages(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}
