package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// TOMLLoader reads configuration layers from TOML files
type TOMLLoader struct {
	globalPath string
	localName  string
}

var _ ports.ConfigLoader = (*TOMLLoader)(nil)

// NewTOMLLoader creates a loader for ~/.config/coursedeck/config.toml and
// coursedeck.toml inside the content directory.
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()

	return &TOMLLoader{
		globalPath: filepath.Join(homeDir, ".config", "coursedeck", "config.toml"),
		localName:  "coursedeck.toml",
	}
}

// LoadGlobal loads the global configuration file, writing the defaults on first run
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); os.IsNotExist(err) {
		if err := l.CreateDefaults(ctx, l.globalPath); err != nil {
			return nil, fmt.Errorf("creating defaults: %w", err)
		}
	}

	return l.loadConfig(ctx, l.globalPath)
}

// LoadLocal loads the configuration file of a content directory
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := l.GetLocalPath(dir)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, nil
	}

	return l.loadConfig(ctx, localPath)
}

// CreateDefaults writes the default configuration to path. An existing file is left alone.
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	file, err := os.Create(path) // #nosec G304 - path is the global config path or an explicit CLI argument
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(GetDefaultConfig()); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig decodes a file on top of the defaults so that keys the file
// leaves out keep their default value.
func (l *TOMLLoader) loadConfig(ctx context.Context, path string) (*entities.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is from controlled sources (global/local config)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	config := GetDefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return config, nil
}
