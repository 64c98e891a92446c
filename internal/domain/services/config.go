package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// ConfigService resolves the effective configuration:
// defaults, then global file, then the content directory file, then environment, then flags.
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

var _ ports.ConfigService = (*ConfigService)(nil)

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads the configuration for a content directory. The content
// root defaults to contentDir when no layer sets it.
func (s *ConfigService) LoadConfig(ctx context.Context, contentDir string, flags map[string]interface{}) (*entities.Config, error) {
	globalConfig, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	localConfig, err := s.loader.LoadLocal(ctx, contentDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	configs := []*entities.Config{s.GetDefaultConfig()}
	if globalConfig != nil {
		configs = append(configs, globalConfig)
	}
	if localConfig != nil {
		configs = append(configs, localConfig)
	}

	merged := s.merger.Merge(configs...)
	merged = s.merger.ApplyEnvVars(merged)
	merged = s.merger.ApplyFlags(merged, flags)

	if merged.Content.Root == "" && contentDir != "" {
		abs, err := filepath.Abs(contentDir)
		if err != nil {
			return nil, fmt.Errorf("resolving content directory: %w", err)
		}
		merged.Content.Root = abs
	}

	if err := s.ValidateConfig(merged); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return merged, nil
}

// GetDefaultConfig returns the default configuration
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	// Merge with no arguments returns defaults
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	return config.Validate()
}

// CreateGlobalConfig creates the global configuration file with defaults
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}
