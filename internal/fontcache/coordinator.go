// SPDX-License-Identifier: MIT

// Package fontcache coordinates the external cache-builder collaborator.
// Artifacts are a pure function of the font-directory set, so resolutions are
// memoized: in memory for the life of the process and, when a store is
// configured, across builds.
package fontcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	xflog "github.com/fontbuild/fontconf/internal/log"
	"github.com/fontbuild/fontconf/internal/metrics"
)

// ArchVariant selects the architecture the cache-builder targets.
type ArchVariant string

const (
	// ArchNative builds the index for the host's native architecture.
	ArchNative ArchVariant = "native"
	// Arch32Bit builds the secondary index for 32-bit consumers on a 64-bit host.
	Arch32Bit ArchVariant = "32bit"
)

// Builder is the external cache-builder collaborator. It precomputes a binary
// index for the given font directories and returns the artifact path. It is
// treated as an opaque black box; its errors are surfaced unmodified.
type Builder interface {
	Build(ctx context.Context, fontDirs []string, variant ArchVariant) (string, error)
}

// Artifact is a precomputed binary index keyed by its font-directory set.
type Artifact struct {
	Digest   string      `json:"digest"`
	Path     string      `json:"path"`
	FontDirs []string    `json:"font_dirs"`
	Variant  ArchVariant `json:"variant"`
}

// Options configures a Coordinator.
type Options struct {
	Builder Builder
	// Store persists resolved artifacts across builds. Optional; without it
	// memoization is process-local only.
	Store *ArtifactStore
	// VersionSalt is mixed into every digest so a toolchain upgrade
	// invalidates previously memoized artifacts.
	VersionSalt string
	// HostMatch reports whether the host can execute code for the target
	// architecture. When false every resolution degrades to "no artifact".
	HostMatch bool
	// Host32Bit reports whether the host can additionally run 32-bit
	// binaries, a precondition for the secondary artifact.
	Host32Bit bool
}

// Coordinator invokes the cache-builder lazily, at most once per distinct
// font-directory set. Concurrent callers for the same set share one in-flight
// build; a started build runs to completion even if its requester goes away.
type Coordinator struct {
	builder   Builder
	store     *ArtifactStore
	salt      string
	hostMatch bool
	host32    bool

	group singleflight.Group

	mu   sync.Mutex
	memo map[string]*Artifact
}

// New creates a cache coordinator.
func New(opts Options) *Coordinator {
	return &Coordinator{
		builder:   opts.Builder,
		store:     opts.Store,
		salt:      opts.VersionSalt,
		hostMatch: opts.HostMatch,
		host32:    opts.Host32Bit,
		memo:      make(map[string]*Artifact),
	}
}

// Digest derives the content-addressed identifier for a font-directory set.
// Order and duplicates in the input do not affect the result.
func Digest(fontDirs []string, salt string) string {
	dirs := normalizeDirs(fontDirs)
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte{0})
	for _, d := range dirs {
		h.Write([]byte(d))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolve returns the cache artifacts for the font-directory set. In the
// cross-build case both artifacts are nil and the builder is never invoked;
// this is a documented degradation, not a failure. The secondary artifact is
// resolved only when requested and the host is capable of running 32-bit
// binaries. Builder errors are returned as-is.
func (c *Coordinator) Resolve(ctx context.Context, fontDirs []string, wantSecondary bool) (primary, secondary *Artifact, err error) {
	logger := xflog.WithComponentFromContext(ctx, "fontcache")

	if !c.hostMatch {
		metrics.CacheDegradedTotal.Inc()
		logger.Warn().
			Int("font_dirs", len(fontDirs)).
			Msg("host cannot execute target binaries, skipping cache build")
		return nil, nil, nil
	}

	primary, err = c.resolveOne(ctx, fontDirs, ArchNative)
	if err != nil {
		return nil, nil, err
	}

	if wantSecondary {
		if !c.host32 {
			logger.Debug().Msg("host cannot run 32-bit binaries, skipping secondary cache")
		} else {
			secondary, err = c.resolveOne(ctx, fontDirs, Arch32Bit)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	return primary, secondary, nil
}

// Invalidate forgets any memoized artifacts for the font-directory set, for
// both architecture variants. The next Resolve triggers a fresh build.
func (c *Coordinator) Invalidate(fontDirs []string) {
	logger := xflog.WithComponent("fontcache")
	digest := Digest(fontDirs, c.salt)
	for _, variant := range []ArchVariant{ArchNative, Arch32Bit} {
		key := memoKey(variant, digest)
		c.mu.Lock()
		delete(c.memo, key)
		c.mu.Unlock()
		if c.store != nil {
			if err := c.store.Delete(key); err != nil {
				logger.Warn().Err(err).
					Str("key", key).Msg("failed to evict artifact from store")
			}
		}
	}
}

func (c *Coordinator) resolveOne(ctx context.Context, fontDirs []string, variant ArchVariant) (*Artifact, error) {
	logger := xflog.WithComponentFromContext(ctx, "fontcache")
	dirs := normalizeDirs(fontDirs)
	digest := Digest(dirs, c.salt)
	key := memoKey(variant, digest)

	if a := c.lookup(key); a != nil {
		metrics.CacheMemoHitTotal.WithLabelValues("memory").Inc()
		return a, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have completed between lookup and Do.
		if a := c.lookup(key); a != nil {
			metrics.CacheMemoHitTotal.WithLabelValues("memory").Inc()
			return a, nil
		}

		if c.store != nil {
			a, ok, err := c.store.Get(key)
			if err != nil {
				logger.Warn().Err(err).
					Str("key", key).Msg("artifact store read failed, rebuilding")
			} else if ok {
				metrics.CacheMemoHitTotal.WithLabelValues("store").Inc()
				c.remember(key, a)
				return a, nil
			}
		}

		// A started build runs to completion even if the requester goes
		// away; later callers reuse the artifact.
		path, err := c.builder.Build(context.WithoutCancel(ctx), dirs, variant)
		if err != nil {
			// Pass the collaborator's error through unwrapped.
			return nil, err
		}
		metrics.CacheBuildTotal.WithLabelValues(string(variant)).Inc()

		a := &Artifact{Digest: digest, Path: path, FontDirs: dirs, Variant: variant}
		if c.store != nil {
			if err := c.store.Put(key, a); err != nil {
				logger.Warn().Err(err).
					Str("key", key).Msg("failed to persist artifact")
			}
		}
		c.remember(key, a)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

func (c *Coordinator) lookup(key string) *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memo[key]
}

func (c *Coordinator) remember(key string, a *Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memo[key] = a
}

func memoKey(variant ArchVariant, digest string) string {
	return string(variant) + ":" + digest
}

// normalizeDirs returns a sorted copy with duplicates removed, so the digest
// and the builder input are independent of caller ordering.
func normalizeDirs(fontDirs []string) []string {
	seen := make(map[string]struct{}, len(fontDirs))
	dirs := make([]string, 0, len(fontDirs))
	for _, d := range fontDirs {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
