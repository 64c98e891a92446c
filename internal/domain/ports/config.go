package ports

import (
	"context"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// ConfigLoader reads the TOML layers: the per-user file and the
// coursedeck.toml of a content directory
type ConfigLoader interface {
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal returns nil, nil when the directory has no config file
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	CreateDefaults(ctx context.Context, path string) error
	GetGlobalPath() string
	GetLocalPath(dir string) string
}

// ConfigMerger folds layers over the defaults. Later layers win, and only
// their non-default values are applied.
type ConfigMerger interface {
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags takes command line values keyed by flag name
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars reads COURSEDECK_* variables
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService resolves the effective configuration for a content directory
type ConfigService interface {
	LoadConfig(ctx context.Context, contentDir string, flags map[string]interface{}) (*entities.Config, error)
	GetDefaultConfig() *entities.Config
	ValidateConfig(config *entities.Config) error
	CreateGlobalConfig(ctx context.Context) error
}
