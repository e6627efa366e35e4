// SPDX-License-Identifier: MIT

package fontcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_InvalidatesOnDirectoryChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fontDir := t.TempDir()
	dirs := []string{fontDir}

	builder := &countingBuilder{}
	coord := New(Options{Builder: builder, HostMatch: true})

	_, _, err := coord.Resolve(context.Background(), dirs, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), builder.calls.Load())

	watcher, err := NewWatcher(coord, dirs)
	require.NoError(t, err)
	defer func() { require.NoError(t, watcher.Close()) }()

	require.NoError(t, os.WriteFile(filepath.Join(fontDir, "new.ttf"), []byte("font"), 0o644))

	// Once the event lands the memo entry is gone and the next resolve rebuilds.
	require.Eventually(t, func() bool {
		_, _, err := coord.Resolve(context.Background(), dirs, false)
		return err == nil && builder.calls.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond, "watcher never invalidated the memoized artifact")
}

func TestWatcher_MissingDirectoryFails(t *testing.T) {
	coord := New(Options{Builder: &countingBuilder{}, HostMatch: true})
	_, err := NewWatcher(coord, []string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
}
