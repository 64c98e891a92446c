package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// NavigationSessionManager owns one Navigator per connected deck page
type NavigationSessionManager struct {
	decks  ports.DeckService
	clock  ports.Clock
	opts   NavigatorOptions
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Navigator
}

var _ ports.NavigationSessions = (*NavigationSessionManager)(nil)

// NewNavigationSessionManager creates a session manager
func NewNavigationSessionManager(decks ports.DeckService, clock ports.Clock, opts NavigatorOptions, logger *slog.Logger) *NavigationSessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = ports.NewRealClock()
	}

	return &NavigationSessionManager{
		decks:    decks,
		clock:    clock,
		opts:     opts,
		logger:   logger.With("service", "navigation"),
		sessions: make(map[string]*Navigator),
	}
}

// Open builds the module deck and starts a navigator sized to it
func (m *NavigationSessionManager) Open(ctx context.Context, collectionID, filename string) (string, ports.Navigator, error) {
	deck, err := m.decks.BuildDeck(ctx, collectionID, filename)
	if err != nil {
		return "", nil, fmt.Errorf("opening navigation session: %w", err)
	}

	id := uuid.New().String()
	nav := NewNavigator(deck.TotalSlides(), m.clock, m.opts)

	m.mu.Lock()
	m.sessions[id] = nav
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Navigation session opened",
		slog.String("session", id),
		slog.String("collection", collectionID),
		slog.String("module", filename),
		slog.Int("slides", deck.TotalSlides()),
		slog.Int("sessions", count),
	)

	return id, nav, nil
}

// Get returns a live session
func (m *NavigationSessionManager) Get(sessionID string) (ports.Navigator, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nav, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return nav, true
}

// Close stops a session's timer and forgets it
func (m *NavigationSessionManager) Close(sessionID string) {
	m.mu.Lock()
	nav, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		nav.Close()
		m.logger.Debug("Navigation session closed", slog.String("session", sessionID))
	}
}

// CloseAll closes every session
func (m *NavigationSessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Navigator)
	m.mu.Unlock()

	for _, nav := range sessions {
		nav.Close()
	}
}

// Count returns the number of open sessions
func (m *NavigationSessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
