// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the fontconf assembly pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheBuildTotal counts cache-builder invocations by architecture variant.
	CacheBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fontconf_cache_build_total",
		Help: "Total number of cache-builder invocations, by architecture variant.",
	}, []string{"variant"})

	// CacheMemoHitTotal counts artifact resolutions served without a build.
	CacheMemoHitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fontconf_cache_memo_hit_total",
		Help: "Total number of cache resolutions answered from memoization, by source (memory/store).",
	}, []string{"source"})

	// CacheDegradedTotal counts resolutions skipped because the host cannot
	// execute code for the target architecture.
	CacheDegradedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fontconf_cache_degraded_total",
		Help: "Total number of cache resolutions skipped in cross-build degraded mode.",
	})

	// FragmentsShadowedTotal counts fragments discarded by permissive collision handling.
	FragmentsShadowedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fontconf_fragments_shadowed_total",
		Help: "Total number of fragments shadowed during permissive merges.",
	})

	// BuildTotal counts assembly runs by outcome.
	BuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fontconf_build_total",
		Help: "Total number of assembly builds, by outcome (ok/error).",
	}, []string{"outcome"})

	// BuildDuration observes wall-clock duration of assembly builds.
	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fontconf_build_duration_seconds",
		Help:    "Duration of assembly builds in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)
