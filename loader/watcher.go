package loader

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/wfx/types"
)

// Watcher polls the components root for source changes and invalidates
// the loader's memoized catalog, so long-lived development processes see
// local edits without restarting. It is a development-mode aid and is
// never started in production.
type Watcher struct {
	loader   *Loader
	interval time.Duration
	onChange func()
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once

	lastState watchState
}

// watchState is a cheap fingerprint of the components tree.
type watchState struct {
	fileCount  int
	latestMod  time.Time
	totalBytes int64
}

// WatchComponents starts polling the components root. Only valid in
// development mode. onChange, if non-nil, runs after each invalidation.
func (l *Loader) WatchComponents(interval time.Duration, onChange func()) (*Watcher, error) {
	if !l.devMode {
		return nil, types.NewError(types.ErrConfig, "components watcher requires development mode")
	}
	if l.componentsPath == "" {
		return nil, types.NewError(types.ErrConfig, "no components path configured")
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	w := &Watcher{
		loader:   l,
		interval: interval,
		onChange: onChange,
		logger:   l.logger.With(zap.String("component", "index_watcher")),
		stopChan: make(chan struct{}),
	}
	w.lastState = w.snapshot()

	go w.pollLoop()
	w.logger.Debug("components watcher started",
		zap.String("path", l.componentsPath),
		zap.Duration("interval", interval))
	return w, nil
}

// Stop terminates the poll loop. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

func (w *Watcher) pollLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			current := w.snapshot()
			if current != w.lastState {
				w.lastState = current
				w.logger.Info("components changed, invalidating catalog",
					zap.String("path", w.loader.componentsPath))
				w.loader.Invalidate()
				if w.onChange != nil {
					w.onChange()
				}
			}
		}
	}
}

// snapshot walks the components tree and fingerprints it. Walk errors
// are ignored; a partially observed tree simply produces a different
// fingerprint on the next healthy poll.
func (w *Watcher) snapshot() watchState {
	var state watchState

	_ = filepath.WalkDir(w.loader.componentsPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		state.fileCount++
		state.totalBytes += info.Size()
		if info.ModTime().After(state.latestMod) {
			state.latestMod = info.ModTime()
		}
		return nil
	})

	return state
}
