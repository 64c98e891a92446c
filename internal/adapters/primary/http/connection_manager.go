package http

import (
	"context"
	"sync"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// Connection is the outbound queue of one websocket client.
// Deliver and Close may be called from any goroutine.
type Connection struct {
	ID string

	mu     sync.Mutex
	send   chan ports.UpdateEvent
	closed bool
}

// NewConnection creates a connection with a buffered queue
func NewConnection(id string, buffer int) *Connection {
	return &Connection{
		ID:   id,
		send: make(chan ports.UpdateEvent, buffer),
	}
}

// Events is drained by the write pump; it is closed by Close
func (c *Connection) Events() <-chan ports.UpdateEvent {
	return c.send
}

// Deliver queues an event without blocking. It returns false when the
// connection is closed or its queue is full.
func (c *Connection) Deliver(event ports.UpdateEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close closes the queue once
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ConnectionManager tracks live connections and fans out broadcasts
type ConnectionManager struct {
	connections map[string]*Connection
	broadcast   chan ports.UpdateEvent
	done        chan struct{}
	doneOnce    sync.Once
	mu          sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*Connection),
		broadcast:   make(chan ports.UpdateEvent, 16),
		done:        make(chan struct{}),
	}
}

// Run fans out broadcasts until ctx is done
func (cm *ConnectionManager) Run(ctx context.Context) {
	defer cm.doneOnce.Do(func() { close(cm.done) })

	for {
		select {
		case <-ctx.Done():
			cm.CloseAll()
			return
		case event := <-cm.broadcast:
			cm.fanOut(event)
		}
	}
}

// Register adds a connection
func (cm *ConnectionManager) Register(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[conn.ID] = conn
}

// Unregister removes and closes a connection
func (cm *ConnectionManager) Unregister(id string) {
	cm.mu.Lock()
	conn, ok := cm.connections[id]
	delete(cm.connections, id)
	cm.mu.Unlock()

	if ok {
		conn.Close()
	}
}

// Broadcast queues an event for every connection. It returns without
// sending once the manager has stopped.
func (cm *ConnectionManager) Broadcast(event ports.UpdateEvent) {
	select {
	case cm.broadcast <- event:
	case <-cm.done:
	}
}

// fanOut delivers to every client; clients with a full queue are dropped
func (cm *ConnectionManager) fanOut(event ports.UpdateEvent) {
	var slow []string

	cm.mu.RLock()
	for id, conn := range cm.connections {
		if !conn.Deliver(event) {
			slow = append(slow, id)
		}
	}
	cm.mu.RUnlock()

	for _, id := range slow {
		cm.Unregister(id)
	}
}

// Count returns the number of live connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll closes and forgets every connection
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	conns := cm.connections
	cm.connections = make(map[string]*Connection)
	cm.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
