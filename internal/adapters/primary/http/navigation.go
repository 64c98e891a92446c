package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// handleNavigationSocket opens a navigation session for the routed module
// and bridges it to the page: client messages drive the navigator, every
// state change is pushed back as a navigation_state event.
func (s *Server) handleNavigationSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// open before upgrading so an unknown module is a plain 404
	sessionID, nav, err := s.sessions.Open(r.Context(), vars["collection"], vars["module"])
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.monitor.RecordNavigationSession()

	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.sessions.Close(sessionID)
		s.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	out := NewConnection(sessionID, sendBuffer)
	s.connMgr.Register(out)

	nav.OnChange(func(state entities.NavigationState) {
		out.Deliver(stateEvent(state))
	})
	out.Deliver(stateEvent(nav.State()))

	client := &WebSocketClient{
		id:     sessionID,
		conn:   conn,
		out:    out,
		logger: s.logger,
	}

	go client.writePump()
	go func() {
		client.readPump(func(msg ports.ClientMessage) error {
			return dispatchNavigation(nav, msg)
		})
		s.connMgr.Unregister(sessionID)
		s.sessions.Close(sessionID)
		_ = conn.Close()
	}()

	s.logger.Debug("Navigation socket %s opened for %s/%s", sessionID, vars["collection"], vars["module"])
}

func stateEvent(state entities.NavigationState) ports.UpdateEvent {
	return ports.UpdateEvent{
		Type:      ports.EventTypeNavigationState,
		Timestamp: time.Now(),
		Data:      state,
	}
}

// dispatchNavigation applies one client message to the navigator
func dispatchNavigation(nav ports.Navigator, msg ports.ClientMessage) error {
	switch msg.Type {
	case ports.MessageKey:
		nav.HandleKey(msg.Data.Key)
	case ports.MessagePointer:
		nav.PointerMoved(msg.Data.X, msg.Data.Y)
	case ports.MessageInteract:
		nav.Interact()
	case ports.MessageGoto:
		if !nav.GoToSlide(msg.Data.Slide) {
			return fmt.Errorf("slide %d: %w", msg.Data.Slide, entities.ErrInvalidSlide)
		}
	case ports.MessageToggleFullscreen:
		nav.ToggleFullscreen()
	case ports.MessageFullscreenChanged:
		nav.SetFullscreen(msg.Data.Fullscreen)
	case ports.MessageToggleLock:
		nav.ToggleControlsLock()
	case ports.MessageEditBegin:
		nav.BeginEditingSlideNumber()
	case ports.MessageEditCommit:
		if !nav.CommitSlideNumberEdit(msg.Data.Slide) {
			return fmt.Errorf("slide %d: %w", msg.Data.Slide, entities.ErrInvalidSlide)
		}
	case ports.MessageEditCancel:
		nav.CancelSlideNumberEdit()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
