package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// PollingWatcher detects changes by rescanning the tree on an interval.
// It serves filesystems where fsnotify is unreliable, such as network mounts.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	stopCh  chan struct{}
}

var _ ports.FileWatcher = (*PollingWatcher)(nil)

// FileInfo stores information about a file
type FileInfo struct {
	Size     int64
	ModTime  time.Time
	Checksum string
}

// snapshot maps every watched file to its last known state
type snapshot map[string]FileInfo

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(interval, debounce time.Duration, logger *slog.Logger) *PollingWatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		logger:   logger.With("component", "watcher", "mode", "poll"),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling path, a file or a directory tree
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, fmt.Errorf("watcher stopped")
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	initial, err := scanTree(absPath, nil)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}

	events := make(chan ports.FileChangeEvent, 10)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath, initial, events)
	}()

	return events, nil
}

// Stop stops the file watcher
func (w *PollingWatcher) Stop() error {
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

func (w *PollingWatcher) pollLoop(ctx context.Context, root string, known snapshot, out chan<- ports.FileChangeEvent) {
	defer close(out)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			current, err := scanTree(root, known)
			if err != nil {
				w.logger.Warn("Watch error", slog.String("error", err.Error()))
				continue
			}

			event, changed := diff(known, current)
			if !changed {
				continue
			}
			// a change inside the debounce window stays pending until the next tick
			if time.Since(lastEvent) < w.debounce {
				continue
			}

			select {
			case out <- event:
				known = current
				lastEvent = time.Now()
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// scanTree records every relevant file under root. Checksums from previous
// are reused when size and modification time are unchanged.
func scanTree(root string, previous snapshot) (snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	current := make(snapshot)
	if !info.IsDir() {
		fi, err := fileInfo(root, info, previous)
		if err != nil {
			return nil, err
		}
		current[root] = fi
		return current, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			if hiddenName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !relevant(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		fi, err := fileInfo(path, info, previous)
		if err != nil {
			return err
		}
		current[path] = fi
		return nil
	})
	if err != nil {
		return nil, err
	}

	return current, nil
}

func fileInfo(path string, info fs.FileInfo, previous snapshot) (FileInfo, error) {
	if old, ok := previous[path]; ok && old.Size == info.Size() && old.ModTime.Equal(info.ModTime()) {
		return old, nil
	}

	checksum, err := calculateChecksum(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("calculate checksum: %w", err)
	}

	return FileInfo{Size: info.Size(), ModTime: info.ModTime(), Checksum: checksum}, nil
}

// diff returns one event describing the first change in path order
func diff(before, after snapshot) (ports.FileChangeEvent, bool) {
	paths := make([]string, 0, len(before)+len(after))
	for p := range after {
		paths = append(paths, p)
	}
	for p := range before {
		if _, ok := after[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		old, existed := before[p]
		cur, exists := after[p]

		var kind ports.ChangeType
		switch {
		case !existed:
			kind = ports.Created
		case !exists:
			kind = ports.Deleted
		case old.Checksum != cur.Checksum:
			kind = ports.Modified
		default:
			continue
		}
		return ports.FileChangeEvent{Path: p, Type: kind, Timestamp: time.Now()}, true
	}

	return ports.FileChangeEvent{}, false
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from walking the watched tree
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
