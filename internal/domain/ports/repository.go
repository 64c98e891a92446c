package ports

import (
	"context"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// ContentRepository is the read-only table of module source texts
type ContentRepository interface {
	// Lookup returns the markdown of a module or an error wrapping entities.ErrNotFound
	Lookup(ctx context.Context, collectionID, filename string) (string, error)
}

// Catalog exposes the discovered collections
type Catalog interface {
	ContentRepository

	// Collections returns every collection sorted by name
	Collections(ctx context.Context) ([]entities.Collection, error)

	// Collection returns one collection or an error wrapping entities.ErrNotFound
	Collection(ctx context.Context, id string) (*entities.Collection, error)

	// Reload rescans the content root and swaps the table
	Reload(ctx context.Context) error
}
