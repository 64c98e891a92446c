package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// NotifyWatcher watches a content tree with fsnotify. Directories created
// after Watch are added as they appear. Bursts of events are coalesced into
// one event once the tree has been quiet for the debounce interval.
type NotifyWatcher struct {
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	stopCh  chan struct{}
}

var _ ports.FileWatcher = (*NotifyWatcher)(nil)

// NewNotifyWatcher creates an fsnotify based watcher
func NewNotifyWatcher(debounce time.Duration, logger *slog.Logger) *NotifyWatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotifyWatcher{
		debounce: debounce,
		logger:   logger.With("component", "watcher", "mode", "notify"),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching path, a file or a directory tree
func (w *NotifyWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, fmt.Errorf("watcher stopped")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := w.addTree(fsw, absPath); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	events := make(chan ports.FileChangeEvent, 10)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx, fsw, events)
	}()

	return events, nil
}

// Stop stops every watch and waits for them to exit
func (w *NotifyWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// addTree registers root and every visible directory below it
func (w *NotifyWatcher) addTree(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fsw.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hiddenName(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *NotifyWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- ports.FileChangeEvent) {
	defer close(out)
	defer func() { _ = fsw.Close() }()

	quiet := time.NewTimer(w.debounce)
	quiet.Stop()
	defer quiet.Stop()

	var pending *ports.FileChangeEvent

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !hiddenName(info.Name()) {
					if err := w.addTree(fsw, ev.Name); err != nil {
						w.logger.Warn("Failed to watch new directory",
							slog.String("path", ev.Name),
							slog.String("error", err.Error()),
						)
					}
				}
			}

			if !relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}

			pending = &ports.FileChangeEvent{
				Path:      ev.Name,
				Type:      changeType(ev.Op),
				Timestamp: time.Now(),
			}
			quiet.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error", slog.String("error", err.Error()))

		case <-quiet.C:
			if pending == nil {
				continue
			}
			select {
			case out <- *pending:
				pending = nil
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

func changeType(op fsnotify.Op) ports.ChangeType {
	switch {
	case op.Has(fsnotify.Create):
		return ports.Created
	case op.Has(fsnotify.Remove):
		return ports.Deleted
	case op.Has(fsnotify.Rename):
		return ports.Renamed
	default:
		return ports.Modified
	}
}
