// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fontbuild/fontconf/internal/assemble"
	"github.com/fontbuild/fontconf/internal/config"
	"github.com/fontbuild/fontconf/internal/discovery"
	"github.com/fontbuild/fontconf/internal/fontcache"
	"github.com/fontbuild/fontconf/internal/fragment"
	xflog "github.com/fontbuild/fontconf/internal/log"
	"github.com/fontbuild/fontconf/internal/merge"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to settings file (YAML)")
	fontsRoot := flag.String("fonts-root", "", "root directory of installed font packages")
	outDir := flag.String("out", "", "output directory for the assembled configuration (required)")
	storePath := flag.String("cache-store", "", "path to the persistent artifact store (optional)")
	builderCmd := flag.String("cache-builder", "fc-cache-build", "external cache-builder executable")
	slug := flag.String("slug", "fontconf", "distribution slug used in generated file names")
	targetArch := flag.String("target-arch", runtime.GOARCH, "architecture the configuration is built for")
	systemCacheDir := flag.String("system-cache-dir", "/var/cache/fontconfig", "cache directory declared in fonts.conf")
	strict := flag.Bool("strict", false, "fail on fragment collisions instead of overriding")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fontconfgen %s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	}

	xflog.Configure(xflog.Config{Level: *logLevel, Service: "fontconfgen"})
	logger := xflog.WithComponent("main")

	if *outDir == "" {
		logger.Error().Msg("-out is required")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := config.Defaults()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			logger.Error().Err(err).Str("path", *configPath).Msg("failed to load settings")
			return 1
		}
		settings = loaded
	}
	if err := config.Validate(settings); err != nil {
		logger.Error().Err(err).Msg("invalid settings")
		return 1
	}

	var fontDirs []string
	if *fontsRoot != "" {
		lister := &discovery.DirLister{Root: *fontsRoot}
		dirs, err := lister.ListFontPackages(ctx)
		if err != nil {
			logger.Error().Err(err).Str("root", *fontsRoot).Msg("font discovery failed")
			return 1
		}
		fontDirs = dirs
	}
	logger.Info().Int("font_dirs", len(fontDirs)).Msg("discovered font directories")

	platformMatch := *targetArch == runtime.GOARCH

	var store *fontcache.ArtifactStore
	if *storePath != "" {
		s, err := fontcache.OpenArtifactStore(*storePath)
		if err != nil {
			logger.Error().Err(err).Str("path", *storePath).Msg("failed to open artifact store")
			return 1
		}
		defer func() {
			if err := s.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close artifact store")
			}
		}()
		store = s
	}

	coord := fontcache.New(fontcache.Options{
		Builder:     &fontcache.CommandBuilder{Command: *builderCmd},
		Store:       store,
		VersionSalt: version,
		HostMatch:   platformMatch,
		Host32Bit:   runtime.GOARCH == "amd64",
	})

	policy := merge.LastWins
	if *strict {
		policy = merge.Strict
	}

	assembler := assemble.New(fragment.NewStore(*slug), coord)
	result, err := assembler.Build(ctx, assemble.Request{
		Settings:       settings,
		FontDirs:       fontDirs,
		PlatformMatch:  platformMatch,
		Policy:         policy,
		OutDir:         *outDir,
		SystemCacheDir: *systemCacheDir,
	})
	if err != nil {
		logger.Error().Err(err).Msg("assembly failed")
		return 1
	}

	logger.Info().
		Str("build_id", result.BuildID).
		Str("out", *outDir).
		Int("fragments", len(result.Ordered)).
		Msg("configuration assembled")
	return 0
}
