package ports

import (
	"context"
	"time"
)

// HTTPServer defines the interface for the HTTP server
type HTTPServer interface {
	Start(ctx context.Context, port int, host string) error
	Stop(ctx context.Context) error
	NotifyClients(event UpdateEvent) error
	IsRunning() bool
}

// UpdateEvent is pushed to websocket clients
type UpdateEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// UpdateEventType constants
const (
	EventTypeReload          = "reload"
	EventTypeFileChange      = "file_change"
	EventTypeError           = "error"
	EventTypeNavigationState = "navigation_state"
)

// ClientMessage is sent by a deck page over its navigation socket
type ClientMessage struct {
	Type string        `json:"type"`
	Data ClientPayload `json:"data"`
}

// ClientPayload carries the arguments of a ClientMessage
type ClientPayload struct {
	Key        string `json:"key,omitempty"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	Slide      int    `json:"slide,omitempty"`
	Fullscreen bool   `json:"fullscreen,omitempty"`
}

// Client message types
const (
	MessageKey               = "key"
	MessagePointer           = "pointer"
	MessageInteract          = "interact"
	MessageGoto              = "goto"
	MessageToggleFullscreen  = "toggle_fullscreen"
	MessageFullscreenChanged = "fullscreen_changed"
	MessageToggleLock        = "toggle_lock"
	MessageEditBegin         = "edit_begin"
	MessageEditCommit        = "edit_commit"
	MessageEditCancel        = "edit_cancel"
)
