package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Conn is the part of a websocket connection the broadcaster needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Observers holds the live connections for one session, keyed by player ID.
type Observers struct {
	connections map[string]Conn
	mu          sync.RWMutex
}

func NewObservers() *Observers {
	return &Observers{
		connections: make(map[string]Conn),
	}
}

// add registers conn for playerID. A second connection for the same player
// is refused and the existing one kept.
func (o *Observers) add(playerID string, conn Conn) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.connections[playerID]; exists {
		return false
	}
	o.connections[playerID] = conn
	return true
}

// remove drops playerID only if conn is still the registered connection.
func (o *Observers) remove(playerID string, conn Conn) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if current, exists := o.connections[playerID]; exists && current == conn {
		delete(o.connections, playerID)
	}
}

func (o *Observers) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.connections)
}

// broadcast sends state to every connection, dropping the ones that fail.
func (o *Observers) broadcast(state SessionState) {
	msg, err := stateMessage(state)
	if err != nil {
		log.Errorf("marshal state for game %s: %v", state.ID, err)
		return
	}

	o.mu.RLock()
	active := make(map[string]Conn, len(o.connections))
	for playerID, conn := range o.connections {
		active[playerID] = conn
	}
	o.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("send state to player %s in game %s: %v", playerID, state.ID, err)
			o.remove(playerID, conn)
		}
	}
}
