package entities

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Browser    BrowserConfig    `toml:"browser"`
	Watcher    WatcherConfig    `toml:"watcher"`
	Content    ContentConfig    `toml:"content"`
	Navigation NavigationConfig `toml:"navigation"`
	Logging    LoggingConfig    `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}

	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("watcher config: %w", err)
	}

	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content config: %w", err)
	}

	if err := c.Navigation.Validate(); err != nil {
		return fmt.Errorf("navigation config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	// Validate CORS origins
	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		// Allow wildcard origin for development
		if origin == "*" {
			continue
		}
		// Basic URL validation
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		// Default to secure localhost origins for development
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// BrowserConfig contains browser launch configuration
type BrowserConfig struct {
	AutoOpen bool   `toml:"auto_open"`
	Browser  string `toml:"browser"`
}

// Validate validates browser configuration
func (b BrowserConfig) Validate() error {
	if strings.ContainsAny(b.Browser, "\n\r\x00") {
		return errors.New("browser command contains control characters")
	}
	return nil
}

// WatcherConfig contains file watcher configuration
type WatcherConfig struct {
	Mode         string `toml:"mode"` // "notify" (fsnotify) or "poll"
	IntervalMs   int    `toml:"interval_ms"`
	DebounceMs   int    `toml:"debounce_ms"`
	MaxRetries   int    `toml:"max_retries"`
	RetryDelayMs int    `toml:"retry_delay_ms"`
}

// Validate validates watcher configuration
func (w WatcherConfig) Validate() error {
	switch w.Mode {
	case "", "notify", "poll":
	default:
		return fmt.Errorf("invalid watcher mode: %s (must be notify or poll)", w.Mode)
	}

	if w.IntervalMs < 50 {
		return errors.New("watcher interval must be at least 50ms")
	}

	if w.DebounceMs < 0 {
		return errors.New("debounce time must be non-negative")
	}

	if w.MaxRetries < 0 {
		return errors.New("max retries must be non-negative")
	}

	if w.RetryDelayMs < 0 {
		return errors.New("retry delay must be non-negative")
	}

	return nil
}

// GetMode returns the watcher backend with default
func (w WatcherConfig) GetMode() string {
	if w.Mode == "" {
		return "notify"
	}
	return w.Mode
}

// GetInterval returns the watcher interval as a duration
func (w WatcherConfig) GetInterval() time.Duration {
	if w.IntervalMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(w.IntervalMs) * time.Millisecond
}

// GetDebounce returns the debounce time as a duration
func (w WatcherConfig) GetDebounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// GetRetryDelay returns the retry delay as a duration
func (w WatcherConfig) GetRetryDelay() time.Duration {
	if w.RetryDelayMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(w.RetryDelayMs) * time.Millisecond
}

// ContentConfig locates the collections served by the application
type ContentConfig struct {
	Root         string `toml:"root"`
	EnableSplits bool   `toml:"enable_splits"`
	Watch        bool   `toml:"watch"`
}

// Validate validates content configuration
func (c ContentConfig) Validate() error {
	if c.Root == "" {
		return nil
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content root is not a directory: %s", c.Root)
	}

	return nil
}

// NavigationConfig tunes the slide controls auto-hide behavior
type NavigationConfig struct {
	AutoHideMs      int  `toml:"auto_hide_ms"`
	TopThresholdPx  int  `toml:"top_threshold_px"`
	LeftThresholdPx int  `toml:"left_threshold_px"`
	StartLocked     bool `toml:"start_locked"`
}

// Validate validates navigation configuration
func (n NavigationConfig) Validate() error {
	if n.AutoHideMs < 0 {
		return errors.New("auto-hide delay must be non-negative")
	}

	if n.TopThresholdPx < 0 || n.LeftThresholdPx < 0 {
		return errors.New("activity thresholds must be non-negative")
	}

	return nil
}

// GetAutoHide returns the quiet interval before controls hide
func (n NavigationConfig) GetAutoHide() time.Duration {
	if n.AutoHideMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(n.AutoHideMs) * time.Millisecond
}

// GetTopThreshold returns the height of the top activity zone in pixels
func (n NavigationConfig) GetTopThreshold() int {
	if n.TopThresholdPx <= 0 {
		return 96
	}
	return n.TopThresholdPx
}

// GetLeftThreshold returns the width of the left activity zone in pixels
func (n NavigationConfig) GetLeftThreshold() int {
	if n.LeftThresholdPx <= 0 {
		return 180
	}
	return n.LeftThresholdPx
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // request logging in the HTTP adapter
	JSONFormat bool   `toml:"json_format"` // slog JSON handler instead of text
	File       string `toml:"file"`        // append logs to this file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}

// SlogLevel maps the configured level onto log/slog
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.GetLevel() {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
