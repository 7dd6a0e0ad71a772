package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/j-raghavan/goguru/core"
)

// Watcher re-reads a configuration file when it changes and hands the
// parsed result to a callback.
type Watcher struct {
	fsw       *fsnotify.Watcher
	closeOnce sync.Once
}

// Watch starts watching path. Each write or replace of the file re-parses
// it and invokes onReload with the new configuration; parse failures are
// reported to the diagnostics logger and skipped, keeping the previous
// configuration in effect.
//
// The parent directory is watched rather than the file itself, so
// editors that replace the file via rename are still observed.
func Watch(path string, onReload func(Config)) (*Watcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("config: watch %s: nil callback", path)
	}
	path = filepath.Clean(path)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{fsw: fsw}
	go w.loop(path, onReload)
	return w, nil
}

func (w *Watcher) loop(path string, onReload func(Config)) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := FromTOMLFile(path)
			if err != nil {
				core.Diag("config: reload %s: %v", path, err)
				continue
			}
			onReload(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			core.Diag("config: watch %s: %v", path, err)
		}
	}
}

// Close stops the watcher. Safe to call multiple times.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}
