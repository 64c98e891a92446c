package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// envPrefix namespaces every environment override
const envPrefix = "COURSEDECK_"

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault(envPrefix+"HOST", "localhost"),
			Port:            getEnvIntOrDefault(envPrefix+"PORT", 3000),
			ReadTimeout:     getEnvIntOrDefault(envPrefix+"READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault(envPrefix+"WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvIntOrDefault(envPrefix+"SHUTDOWN_TIMEOUT", 5),
			Environment:     getEnvOrDefault(envPrefix+"ENV", "development"),
			CORSOrigins: getEnvSliceOrDefault(envPrefix+"CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			}),
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Watcher: entities.WatcherConfig{
			Mode:         "notify",
			IntervalMs:   200,
			DebounceMs:   500,
			MaxRetries:   3,
			RetryDelayMs: 100,
		},
		Content: entities.ContentConfig{
			Root:         getEnvOrDefault(envPrefix+"CONTENT_ROOT", ""),
			EnableSplits: true,
			Watch:        true,
		},
		Navigation: entities.NavigationConfig{
			AutoHideMs:      3000,
			TopThresholdPx:  96,
			LeftThresholdPx: 180,
			StartLocked:     true,
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault(envPrefix+"LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault(envPrefix+"LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault(envPrefix+"LOG_JSON", false),
			File:       getEnvOrDefault(envPrefix+"LOG_FILE", ""),
		},
	}

	if autoOpen := os.Getenv(envPrefix + "BROWSER_AUTO_OPEN"); autoOpen != "" {
		if v, err := strconv.ParseBool(autoOpen); err == nil {
			config.Browser.AutoOpen = v
		}
	}

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault reads a comma separated list
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
