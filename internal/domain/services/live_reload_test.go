package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

type MockFileWatcher struct {
	mock.Mock
}

func (m *MockFileWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	args := m.Called(ctx, path)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan ports.FileChangeEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileWatcher) Stop() error {
	args := m.Called()
	return args.Error(0)
}

type MockHTTPServer struct {
	mock.Mock
}

func (m *MockHTTPServer) Start(ctx context.Context, port int, host string) error {
	args := m.Called(ctx, port, host)
	return args.Error(0)
}

func (m *MockHTTPServer) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHTTPServer) NotifyClients(event ports.UpdateEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockHTTPServer) IsRunning() bool {
	args := m.Called()
	return args.Bool(0)
}

func TestLiveReloadService_Start(t *testing.T) {
	t.Run("watch error", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		watcher.On("Watch", mock.Anything, "/content").Return(nil, errors.New("no such dir"))

		svc := NewLiveReloadService(watcher, new(MockHTTPServer), newStubCatalog(), nil)
		err := svc.Start(context.Background(), "/content")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "starting watcher")
		assert.False(t, svc.IsWatching())
	})

	t.Run("already watching", func(t *testing.T) {
		events := make(chan ports.FileChangeEvent)
		watcher := new(MockFileWatcher)
		watcher.On("Watch", mock.Anything, "/content").Return((<-chan ports.FileChangeEvent)(events), nil)
		watcher.On("Stop").Return(nil)

		svc := NewLiveReloadService(watcher, new(MockHTTPServer), newStubCatalog(), nil)
		require.NoError(t, svc.Start(context.Background(), "/content"))
		assert.True(t, svc.IsWatching())

		err := svc.Start(context.Background(), "/content")
		assert.EqualError(t, err, "already watching")

		require.NoError(t, svc.Stop())
		assert.False(t, svc.IsWatching())
		watcher.AssertExpectations(t)
	})
}

func TestLiveReloadService_HandleEvents(t *testing.T) {
	t.Run("reloads catalog and notifies clients", func(t *testing.T) {
		events := make(chan ports.FileChangeEvent, 1)
		watcher := new(MockFileWatcher)
		watcher.On("Watch", mock.Anything, "/content").Return((<-chan ports.FileChangeEvent)(events), nil)
		watcher.On("Stop").Return(nil)

		notified := make(chan ports.UpdateEvent, 1)
		server := new(MockHTTPServer)
		server.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		catalog := newStubCatalog()
		svc := NewLiveReloadService(watcher, server, catalog, nil)
		require.NoError(t, svc.Start(context.Background(), "/content"))

		events <- ports.FileChangeEvent{Path: "/content/go/01_Intro.md", Type: ports.Modified, Timestamp: time.Now()}

		select {
		case ev := <-notified:
			assert.Equal(t, ports.EventTypeReload, ev.Type)
			data := ev.Data.(map[string]interface{})
			assert.Equal(t, "/content/go/01_Intro.md", data["file"])
			assert.Equal(t, "modified", data["type"])
		case <-time.After(2 * time.Second):
			t.Fatal("clients were not notified")
		}

		require.NoError(t, svc.Stop())
		assert.Equal(t, 1, catalog.reloads())
	})

	t.Run("reload failure sends an error event", func(t *testing.T) {
		events := make(chan ports.FileChangeEvent, 1)
		watcher := new(MockFileWatcher)
		watcher.On("Watch", mock.Anything, "/content").Return((<-chan ports.FileChangeEvent)(events), nil)
		watcher.On("Stop").Return(nil)

		notified := make(chan ports.UpdateEvent, 1)
		server := new(MockHTTPServer)
		server.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		catalog := newStubCatalog()
		catalog.reloadErr = errors.New("permission denied")
		svc := NewLiveReloadService(watcher, server, catalog, nil)
		require.NoError(t, svc.Start(context.Background(), "/content"))

		events <- ports.FileChangeEvent{Path: "/content/go", Type: ports.Deleted, Timestamp: time.Now()}

		select {
		case ev := <-notified:
			assert.Equal(t, ports.EventTypeError, ev.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("clients were not notified")
		}

		require.NoError(t, svc.Stop())
	})

	t.Run("closed channel ends the loop", func(t *testing.T) {
		events := make(chan ports.FileChangeEvent)
		watcher := new(MockFileWatcher)
		watcher.On("Watch", mock.Anything, "/content").Return((<-chan ports.FileChangeEvent)(events), nil)
		watcher.On("Stop").Return(nil)

		svc := NewLiveReloadService(watcher, new(MockHTTPServer), newStubCatalog(), nil)
		require.NoError(t, svc.Start(context.Background(), "/content"))
		close(events)

		require.NoError(t, svc.Stop())
	})
}
