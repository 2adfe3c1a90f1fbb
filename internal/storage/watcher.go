package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"treats/internal/providers"
	"treats/internal/storage/interfaces"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes of one file. The parent directory is watched so
// rename-over writes are seen as well.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   providers.Logger
	onChange func()
	ignore   func() bool
	started  bool
	done     chan struct{}
}

func NewWatcher(path string, logger providers.Logger, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// NewSnapshotWatcher watches the file behind a file gateway and skips the
// changes the gateway made itself. Other gateways get no watcher.
func NewSnapshotWatcher(gateway interfaces.GatewayInterface, logger providers.Logger, onChange func()) (*Watcher, error) {
	fm, ok := gateway.(*FileManager)
	if !ok {
		return nil, nil
	}
	w, err := NewWatcher(fm.Path(), logger, onChange)
	if err != nil {
		return nil, err
	}
	w.ignore = fm.IsOwnWrite
	return w, nil
}

func (w *Watcher) Start(ctx context.Context) {
	w.started = true
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					if w.ignore != nil && w.ignore() {
						continue
					}
					w.logger.Debugf(providers.TypeApp, "Snapshot file changed: %s", event)
					w.onChange()
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warnf(providers.TypeApp, "Snapshot watcher error: %s", err)
			}
		}
	}()
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}
