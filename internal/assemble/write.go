// SPDX-License-Identifier: MIT

package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	xflog "github.com/fontbuild/fontconf/internal/log"
	"github.com/fontbuild/fontconf/internal/merge"
)

// writeDirectory lays out the assembled configuration on disk:
//
//	<out>/fonts.conf
//	<out>/local.conf          (only when localConf text is set)
//	<out>/conf.d/NN-slug.conf (one per merged fragment)
//
// Everything is staged in a scratch directory next to the target and swapped
// in only once complete, so a failure part-way leaves the previous output
// untouched and never exposes a half-written directory.
func (a *Assembler) writeDirectory(ctx context.Context, req Request, dir *merge.Directory) error {
	logger := xflog.FromContext(ctx)

	target := filepath.Clean(req.OutDir)
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".fontconf-staging-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logger.Debug().Err(err).Str("path", staging).Msg("cleanup staging directory")
		}
	}()

	confD := filepath.Join(staging, "conf.d")
	if err := os.MkdirAll(confD, 0o755); err != nil {
		return fmt.Errorf("create conf.d: %w", err)
	}

	entry := a.store.EntryPoint(req.SystemCacheDir)
	if err := writeFile(ctx, filepath.Join(staging, "fonts.conf"), entry); err != nil {
		return err
	}

	if req.Settings.LocalConfText != "" {
		localPath := filepath.Join(staging, "local.conf")
		if err := writeFile(ctx, localPath, []byte(req.Settings.LocalConfText)); err != nil {
			return err
		}
	}

	for _, path := range dir.Paths() {
		e, _ := dir.Entry(path)
		if err := writeFile(ctx, filepath.Join(confD, path), e.Fragment.Content); err != nil {
			return err
		}
	}

	return swapIn(staging, target)
}

// swapIn moves the staged tree to its final location. Any previous output is
// displaced only after the new tree is complete, and restored if the swap
// itself fails.
func swapIn(staging, target string) error {
	if _, err := os.Lstat(target); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("stat output directory: %w", err)
		}
		if err := os.Rename(staging, target); err != nil {
			return fmt.Errorf("move assembled directory into place: %w", err)
		}
		return nil
	}

	displaced := staging + ".replaced"
	if err := os.Rename(target, displaced); err != nil {
		return fmt.Errorf("displace previous output: %w", err)
	}
	if err := os.Rename(staging, target); err != nil {
		if rerr := os.Rename(displaced, target); rerr != nil {
			return fmt.Errorf("move assembled directory into place: %w (restore previous output failed: %v)", err, rerr)
		}
		return fmt.Errorf("move assembled directory into place: %w", err)
	}
	if err := os.RemoveAll(displaced); err != nil {
		return fmt.Errorf("remove previous output: %w", err)
	}
	return nil
}

// writeFile writes atomically and durably: temp file, fsync, rename. A crash
// mid-write never leaves a partially written config file behind.
func writeFile(ctx context.Context, path string, content []byte) error {
	logger := xflog.FromContext(ctx)

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file for %s: %w", path, err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if _, err := pending.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
