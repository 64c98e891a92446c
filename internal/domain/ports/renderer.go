package ports

import (
	"context"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// PageRenderer renders the HTML pages of the site
type PageRenderer interface {
	RenderHome(ctx context.Context, collections []entities.Collection) ([]byte, error)
	RenderCollection(ctx context.Context, collection *entities.Collection) ([]byte, error)
	RenderDeck(ctx context.Context, deck *entities.Deck) ([]byte, error)
	RenderSupport(ctx context.Context, doc *entities.SupportDocument) ([]byte, error)
}
