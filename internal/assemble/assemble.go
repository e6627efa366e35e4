// SPDX-License-Identifier: MIT

// Package assemble runs the full configuration assembly pipeline: settings
// validation, fragment materialization, cache resolution, package merging,
// ordering, and finally writing the merged directory to disk.
package assemble

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fontbuild/fontconf/internal/config"
	"github.com/fontbuild/fontconf/internal/fontcache"
	"github.com/fontbuild/fontconf/internal/fragment"
	xflog "github.com/fontbuild/fontconf/internal/log"
	"github.com/fontbuild/fontconf/internal/merge"
	"github.com/fontbuild/fontconf/internal/metrics"
	"github.com/fontbuild/fontconf/internal/order"
)

// GeneratedPackageName identifies the package holding the built-in fragments
// materialized from settings.
const GeneratedPackageName = "generated"

// Request describes one assembly build. Packages merge in the order: base
// packages, the generated fragment package, then extra packages — so extras
// can override anything and base packages are overridden by everything.
type Request struct {
	Settings config.Settings
	FontDirs []string
	// BasePackages merge before the generated package.
	BasePackages []fragment.Package
	// ExtraPackages merge after the generated package.
	ExtraPackages []fragment.Package
	// PlatformMatch reports host==build architecture. When false the cache
	// coordinator is never consulted and the cache fragment lists font
	// directories only.
	PlatformMatch bool
	Policy        merge.Policy
	// OutDir is where the assembled directory is written. Empty skips writing.
	OutDir string
	// SystemCacheDir is declared in the fonts.conf entry point.
	SystemCacheDir string
}

// Result is a completed assembly.
type Result struct {
	BuildID   string
	Directory *merge.Directory
	Ordered   []fragment.Fragment
	Primary   *fontcache.Artifact
	Secondary *fontcache.Artifact
}

// Assembler wires the fragment store and the cache coordinator into one
// build pipeline. It is stateless across builds; the coordinator's memo
// table is the only shared state underneath.
type Assembler struct {
	store *fragment.Store
	coord *fontcache.Coordinator
}

// New creates an assembler. The coordinator may be nil, in which case cache
// resolution is skipped and the output degrades to directory-scan-only.
func New(store *fragment.Store, coord *fontcache.Coordinator) *Assembler {
	return &Assembler{store: store, coord: coord}
}

// Build runs one assembly. Settings are validated before any I/O; merge and
// ordering failures abort the build with nothing written.
func (a *Assembler) Build(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	ctx = xflog.ContextWithBuildID(ctx, buildID)
	logger := xflog.WithComponentFromContext(ctx, "assemble")

	res, err := a.build(ctx, req, buildID)
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BuildTotal.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("assembly failed")
		return nil, err
	}
	metrics.BuildTotal.WithLabelValues("ok").Inc()
	logger.Info().
		Int("fragments", len(res.Ordered)).
		Int("font_dirs", len(req.FontDirs)).
		Bool("cache", res.Primary != nil).
		Dur("elapsed", time.Since(start)).
		Msg("assembly complete")
	return res, nil
}

func (a *Assembler) build(ctx context.Context, req Request, buildID string) (*Result, error) {
	if err := config.Validate(req.Settings); err != nil {
		return nil, err
	}

	frags := a.store.Materialize(req.Settings, req.FontDirs)

	res := &Result{BuildID: buildID}
	if req.PlatformMatch && a.coord != nil {
		primary, secondary, err := a.coord.Resolve(ctx, req.FontDirs, req.Settings.Cache32Bit)
		if err != nil {
			return nil, err
		}
		res.Primary, res.Secondary = primary, secondary

		var cacheDirs []string
		if primary != nil {
			cacheDirs = append(cacheDirs, primary.Path)
		}
		if secondary != nil {
			cacheDirs = append(cacheDirs, secondary.Path)
		}
		if len(cacheDirs) > 0 {
			for i := range frags {
				if frags[i].Priority == fragment.PriorityCache {
					frags[i] = a.store.CacheFragment(req.FontDirs, cacheDirs)
				}
			}
		}
	}

	generated, err := fragment.NewPackage(GeneratedPackageName, frags)
	if err != nil {
		return nil, err
	}

	packages := make([]fragment.Package, 0, len(req.BasePackages)+1+len(req.ExtraPackages))
	packages = append(packages, req.BasePackages...)
	packages = append(packages, generated)
	packages = append(packages, req.ExtraPackages...)

	dir, err := merge.New(req.Policy).Merge(packages)
	if err != nil {
		return nil, err
	}
	res.Directory = dir

	ordered, err := order.Resolve(dir)
	if err != nil {
		return nil, err
	}
	res.Ordered = ordered

	if req.OutDir != "" {
		if err := a.writeDirectory(ctx, req, dir); err != nil {
			return nil, err
		}
	}
	return res, nil
}
