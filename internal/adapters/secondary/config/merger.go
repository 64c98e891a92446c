package config

import (
	"os"
	"slices"
	"strconv"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// ConfigMerger layers configurations on top of each other
type ConfigMerger struct{}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence.
// A value only overrides when it differs from the default, so a file that
// was decoded over the defaults does not reset what an earlier layer set.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	defaults := GetDefaultConfig()

	for _, source := range configs[1:] {
		if source != nil {
			mergeInto(result, source, defaults)
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if noSplits, ok := flags["no-splits"].(bool); ok && noSplits {
		result.Content.EnableSplits = false
	}

	if noWatch, ok := flags["no-watch"].(bool); ok && noWatch {
		result.Content.Watch = false
	}

	if mode, ok := flags["watch-mode"].(string); ok && mode != "" {
		result.Watcher.Mode = mode
	}

	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if host := os.Getenv(envPrefix + "HOST"); host != "" {
		result.Server.Host = host
	}
	envInt(envPrefix+"PORT", &result.Server.Port)

	if noBrowser, ok := envBool(envPrefix + "NO_BROWSER"); ok {
		result.Browser.AutoOpen = !noBrowser
	}
	if browser := os.Getenv(envPrefix + "BROWSER"); browser != "" {
		result.Browser.Browser = browser
	}

	if mode := os.Getenv(envPrefix + "WATCH_MODE"); mode != "" {
		result.Watcher.Mode = mode
	}
	envInt(envPrefix+"WATCH_INTERVAL", &result.Watcher.IntervalMs)
	envInt(envPrefix+"WATCH_DEBOUNCE", &result.Watcher.DebounceMs)

	if root := os.Getenv(envPrefix + "CONTENT_ROOT"); root != "" {
		result.Content.Root = root
	}
	if splits, ok := envBool(envPrefix + "ENABLE_SPLITS"); ok {
		result.Content.EnableSplits = splits
	}
	if watch, ok := envBool(envPrefix + "WATCH"); ok {
		result.Content.Watch = watch
	}

	envInt(envPrefix+"AUTO_HIDE_MS", &result.Navigation.AutoHideMs)
	if locked, ok := envBool(envPrefix + "START_LOCKED"); ok {
		result.Navigation.StartLocked = locked
	}

	if level := os.Getenv(envPrefix + "LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return result
}

func envInt(key string, dst *int) {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func envBool(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	return b, err == nil
}

// set overrides target with a non-zero source that differs from the default
func set[T comparable](target *T, source, def T) {
	var zero T
	if source != zero && source != def {
		*target = source
	}
}

// setBool overrides target when source differs from the default
func setBool(target *bool, source, def bool) {
	if source != def {
		*target = source
	}
}

func mergeInto(target, source, def *entities.Config) {
	set(&target.Server.Host, source.Server.Host, def.Server.Host)
	set(&target.Server.Port, source.Server.Port, def.Server.Port)
	set(&target.Server.ReadTimeout, source.Server.ReadTimeout, def.Server.ReadTimeout)
	set(&target.Server.WriteTimeout, source.Server.WriteTimeout, def.Server.WriteTimeout)
	set(&target.Server.ShutdownTimeout, source.Server.ShutdownTimeout, def.Server.ShutdownTimeout)
	set(&target.Server.Environment, source.Server.Environment, def.Server.Environment)
	if len(source.Server.CORSOrigins) > 0 && !slices.Equal(source.Server.CORSOrigins, def.Server.CORSOrigins) {
		target.Server.CORSOrigins = slices.Clone(source.Server.CORSOrigins)
	}

	setBool(&target.Browser.AutoOpen, source.Browser.AutoOpen, def.Browser.AutoOpen)
	set(&target.Browser.Browser, source.Browser.Browser, def.Browser.Browser)

	set(&target.Watcher.Mode, source.Watcher.Mode, def.Watcher.Mode)
	set(&target.Watcher.IntervalMs, source.Watcher.IntervalMs, def.Watcher.IntervalMs)
	set(&target.Watcher.DebounceMs, source.Watcher.DebounceMs, def.Watcher.DebounceMs)
	set(&target.Watcher.MaxRetries, source.Watcher.MaxRetries, def.Watcher.MaxRetries)
	set(&target.Watcher.RetryDelayMs, source.Watcher.RetryDelayMs, def.Watcher.RetryDelayMs)

	set(&target.Content.Root, source.Content.Root, def.Content.Root)
	setBool(&target.Content.EnableSplits, source.Content.EnableSplits, def.Content.EnableSplits)
	setBool(&target.Content.Watch, source.Content.Watch, def.Content.Watch)

	set(&target.Navigation.AutoHideMs, source.Navigation.AutoHideMs, def.Navigation.AutoHideMs)
	set(&target.Navigation.TopThresholdPx, source.Navigation.TopThresholdPx, def.Navigation.TopThresholdPx)
	set(&target.Navigation.LeftThresholdPx, source.Navigation.LeftThresholdPx, def.Navigation.LeftThresholdPx)
	setBool(&target.Navigation.StartLocked, source.Navigation.StartLocked, def.Navigation.StartLocked)

	set(&target.Logging.Level, source.Logging.Level, def.Logging.Level)
	setBool(&target.Logging.Verbose, source.Logging.Verbose, def.Logging.Verbose)
	setBool(&target.Logging.JSONFormat, source.Logging.JSONFormat, def.Logging.JSONFormat)
	set(&target.Logging.File, source.Logging.File, def.Logging.File)
}

// deepCopy copies a configuration; only the CORS origins need cloning
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Server.CORSOrigins = slices.Clone(src.Server.CORSOrigins)
	return &dst
}
