package messaging

import "sync"

// Conn is the write side of a live client connection. The relay only ever
// pushes payloads; reads stay with the connection's own loop.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Registry tracks which users currently have a live connection. At most
// one connection per user: a new registration overwrites the old one.
// An absent entry means offline, which is a normal state, not an error.
//
// The registry is owned by the relay that created it; there is no package
// level instance.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register stores the connection for userID, replacing any prior one.
func (r *Registry) Register(userID string, c Conn) {
	r.mu.Lock()
	r.conns[userID] = c
	r.mu.Unlock()
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	c, ok := r.conns[userID]
	r.mu.RUnlock()
	return c, ok
}

// Remove drops userID's entry. Removing an absent entry is a no-op.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
}

// Online reports how many users currently have a connection.
func (r *Registry) Online() int {
	r.mu.RLock()
	n := len(r.conns)
	r.mu.RUnlock()
	return n
}
