package ports

import (
	"context"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// DeckService builds the views of a module
type DeckService interface {
	// Document parses a module; errors wrap entities.ErrNotFound on lookup failure
	Document(ctx context.Context, collectionID, filename string, enableSplits bool) (*entities.Document, error)

	// BuildDeck returns the slide sequence of a module
	BuildDeck(ctx context.Context, collectionID, filename string) (*entities.Deck, error)

	// BuildSupport returns the support document of a module
	BuildSupport(ctx context.Context, collectionID, filename string) (*entities.SupportDocument, error)
}

// Navigator is the navigation state machine of one deck session
type Navigator interface {
	State() entities.NavigationState
	GoNext()
	GoPrevious()
	GoToSlide(n int) bool
	ToggleFullscreen()
	SetFullscreen(fullscreen bool)
	ToggleControlsLock()
	PointerMoved(x, y int)
	Interact()
	BeginEditingSlideNumber()
	CommitSlideNumberEdit(n int) bool
	CancelSlideNumberEdit()
	HandleKey(key string)
	OnChange(fn func(entities.NavigationState))
	Close()
}

// NavigationSessions tracks the live navigators of connected deck pages
type NavigationSessions interface {
	Open(ctx context.Context, collectionID, filename string) (string, Navigator, error)
	Get(sessionID string) (Navigator, bool)
	Close(sessionID string)
	Count() int
}
