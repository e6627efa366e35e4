// SPDX-License-Identifier: MIT

package fontcache

import (
	"github.com/fsnotify/fsnotify"

	xflog "github.com/fontbuild/fontconf/internal/log"
)

// Watcher invalidates memoized artifacts when any watched font directory
// changes, so the next build resolves a fresh cache artifact instead of a
// stale one.
type Watcher struct {
	fw    *fsnotify.Watcher
	coord *Coordinator
	dirs  []string
	done  chan struct{}
}

// NewWatcher starts watching the font directories on behalf of the coordinator.
func NewWatcher(coord *Coordinator, fontDirs []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range fontDirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fw:    fw,
		coord: coord,
		dirs:  append([]string(nil), fontDirs...),
		done:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	logger := xflog.WithComponent("fontcache-watcher")
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).
					Msg("font directory changed, invalidating cache artifacts")
				w.coord.Invalidate(w.dirs)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("font directory watch error")
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
