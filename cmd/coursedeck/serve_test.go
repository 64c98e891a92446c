package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/test/builders"
)

// contentDir writes a small content tree and isolates HOME so the global
// config lands in the test directory
func contentDir(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"COURSEDECK_PORT", "COURSEDECK_HOST", "COURSEDECK_CONTENT_ROOT", "COURSEDECK_WATCH_MODE", "COURSEDECK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	root := t.TempDir()
	dir := filepath.Join(root, "go_avance")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_intro.md"), []byte(builders.ScenarioModule()), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_suite.md"), []byte("# Suite\n\n## Partie\n\nTexte\n"), 0o600))
	return root
}

// serveCommand returns a serve command parsed with args, attached to a root
// that carries the persistent flags
func serveCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	root := &cobra.Command{Use: "coursedeck"}
	root.PersistentFlags().BoolP("verbose", "v", false, "")
	cmd := newServeCmd()
	root.AddCommand(cmd)

	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestServeCommand_Args(t *testing.T) {
	cmd := newServeCmd()
	assert.NoError(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"./content"}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))

	for _, name := range serveFlags {
		if name == "verbose" {
			continue
		}
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestCollectFlags(t *testing.T) {
	cmd := serveCommand(t, "--port", "8080", "--no-splits", "--watch-mode", "poll")

	flags := collectFlags(cmd)
	assert.Equal(t, map[string]interface{}{
		"port":       8080,
		"no-splits":  true,
		"watch-mode": "poll",
	}, flags)
}

func TestLoadServeConfig(t *testing.T) {
	root := contentDir(t)

	t.Run("flags and argument win", func(t *testing.T) {
		cmd := serveCommand(t, "--port", "4100", "--no-browser", "--no-splits")

		cfg, err := loadServeConfig(context.Background(), cmd, []string{root})
		require.NoError(t, err)

		abs, _ := filepath.Abs(root)
		assert.Equal(t, abs, cfg.Content.Root)
		assert.Equal(t, 4100, cfg.Server.Port)
		assert.False(t, cfg.Browser.AutoOpen)
		assert.False(t, cfg.Content.EnableSplits)
		assert.True(t, cfg.Content.Watch)
	})

	t.Run("local file applies", func(t *testing.T) {
		local := "[server]\nport = 4200\n\n[navigation]\nauto_hide_ms = 5000\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "coursedeck.toml"), []byte(local), 0o600))
		t.Cleanup(func() { _ = os.Remove(filepath.Join(root, "coursedeck.toml")) })

		cfg, err := loadServeConfig(context.Background(), serveCommand(t), []string{root})
		require.NoError(t, err)
		assert.Equal(t, 4200, cfg.Server.Port)
		assert.Equal(t, 5000, cfg.Navigation.AutoHideMs)
	})

	t.Run("missing content directory", func(t *testing.T) {
		_, err := loadServeConfig(context.Background(), serveCommand(t), []string{filepath.Join(root, "nope")})
		assert.Error(t, err)
	})
}

func TestValidateServeConfig(t *testing.T) {
	tests := []struct {
		name    string
		server  entities.ServerConfig
		wantErr string
	}{
		{name: "valid", server: entities.ServerConfig{Host: "localhost", Port: 3000}},
		{name: "zero port", server: entities.ServerConfig{Host: "localhost"}, wantErr: "invalid port number"},
		{name: "port too high", server: entities.ServerConfig{Port: 70000}, wantErr: "invalid port number"},
		{name: "host with space", server: entities.ServerConfig{Host: "local host", Port: 3000}, wantErr: "invalid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateServeConfig(&entities.Config{Server: tt.server})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000", serverURL("localhost", 3000))
	assert.Equal(t, "http://127.0.0.1:8080", serverURL("127.0.0.1", 8080))
	assert.Equal(t, "http://localhost:3000", serverURL("0.0.0.0", 3000))
	assert.Equal(t, "http://localhost:3000", serverURL("", 3000))
	assert.Equal(t, "http://[::1]:3000", serverURL("::1", 3000))
}

func TestNewWatcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.IsType(t, &watcher.PollingWatcher{}, newWatcher(entities.WatcherConfig{Mode: "poll"}, logger))
	assert.IsType(t, &watcher.NotifyWatcher{}, newWatcher(entities.WatcherConfig{Mode: "notify"}, logger))
	assert.IsType(t, &watcher.NotifyWatcher{}, newWatcher(entities.WatcherConfig{}, logger))
}

func TestNewLogger(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "coursedeck.log")

		logger, closeLog, err := newLogger(entities.LoggingConfig{Level: "debug", JSONFormat: true, File: path}, io.Discard)
		require.NoError(t, err)
		logger.Debug("hello", slog.String("k", "v"))
		require.NoError(t, closeLog())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "v", line["k"])
	})

	t.Run("text to stderr honours level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closeLog, err := newLogger(entities.LoggingConfig{Level: "warn"}, &buf)
		require.NoError(t, err)
		defer func() { _ = closeLog() }()

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestNewApp(t *testing.T) {
	root := contentDir(t)
	cmd := serveCommand(t, "--no-browser", "--no-watch")

	cfg, err := loadServeConfig(context.Background(), cmd, []string{root})
	require.NoError(t, err)

	app, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ts := httptest.NewServer(app.server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/collections/go_avance/modules/01_intro/deck")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deck entities.Deck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deck))
	assert.Equal(t, "My Module", deck.Title)
	require.NotNil(t, deck.Next)
	assert.Equal(t, "02_suite", deck.Next.Filename)
}

func TestApp_RunUntilCancelled(t *testing.T) {
	root := contentDir(t)
	port := freePort(t)

	cmd := serveCommand(t, "--no-browser", "--port", strconv.Itoa(port), "--host", "127.0.0.1")
	cfg, err := loadServeConfig(context.Background(), cmd, []string{root})
	require.NoError(t, err)

	app, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- app.run(ctx, &out) }()

	require.Eventually(t, app.server.IsRunning, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, app.reload.IsWatching, 2*time.Second, 10*time.Millisecond)

	_, _, err = app.sessions.Open(ctx, "go_avance", "01_intro")
	require.NoError(t, err)
	require.Equal(t, 1, app.sessions.Count())

	cancel()
	require.NoError(t, <-done)
	assert.False(t, app.server.IsRunning())
	assert.False(t, app.reload.IsWatching())
	assert.Zero(t, app.sessions.Count(), "shutdown closes open navigation sessions")
	assert.Contains(t, out.String(), "http://127.0.0.1:"+strconv.Itoa(port))
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
