package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// LiveReloadService rescans the catalog when content changes and tells
// connected pages to reload
type LiveReloadService struct {
	watcher     ports.FileWatcher
	server      ports.HTTPServer
	catalog     ports.Catalog
	logger      *slog.Logger
	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
	done        chan struct{}
	contentRoot string
}

// NewLiveReloadService creates a new live reload service
func NewLiveReloadService(
	watcher ports.FileWatcher,
	server ports.HTTPServer,
	catalog ports.Catalog,
	logger *slog.Logger,
) *LiveReloadService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LiveReloadService{
		watcher: watcher,
		server:  server,
		catalog: catalog,
		logger:  logger.With("service", "live_reload"),
	}
}

// Start watches the content root until ctx is done or Stop is called
func (s *LiveReloadService) Start(ctx context.Context, contentRoot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watching {
		return errors.New("already watching")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	events, err := s.watcher.Watch(watchCtx, contentRoot)
	if err != nil {
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	s.watching = true
	s.watchCancel = cancel
	s.contentRoot = contentRoot
	s.done = make(chan struct{})

	go s.handleEvents(watchCtx, events, s.done)

	return nil
}

// Stop stops watching and waits for the event loop to exit
func (s *LiveReloadService) Stop() error {
	s.mu.Lock()
	if !s.watching {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.watchCancel, s.done
	s.watching = false
	s.watchCancel = nil
	s.mu.Unlock()

	cancel()
	<-done

	if err := s.watcher.Stop(); err != nil {
		return fmt.Errorf("stopping watcher: %w", err)
	}
	return nil
}

// IsWatching returns whether the service is currently watching
func (s *LiveReloadService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

func (s *LiveReloadService) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			s.logger.Info("Content changed",
				slog.String("path", event.Path),
				slog.String("type", event.Type.String()),
				slog.Time("timestamp", event.Timestamp),
			)

			update := ports.UpdateEvent{
				Type:      ports.EventTypeReload,
				Timestamp: event.Timestamp,
				Data: map[string]interface{}{
					"file": event.Path,
					"type": event.Type.String(),
				},
			}

			if err := s.catalog.Reload(ctx); err != nil {
				s.logger.Error("Failed to reload catalog",
					slog.String("error", err.Error()),
					slog.String("path", event.Path),
				)
				update.Type = ports.EventTypeError
				update.Data = map[string]interface{}{"message": "content reload failed"}
			}

			if err := s.server.NotifyClients(update); err != nil {
				s.logger.Warn("Failed to notify WebSocket clients",
					slog.String("error", err.Error()),
					slog.String("event_type", update.Type),
				)
			}
		}
	}
}
