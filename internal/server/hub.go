package server

import "sync"

// client is one websocket connection attached to a session.
type client struct {
	send chan outbound
	quit chan struct{}
	once sync.Once
}

func newClient() *client {
	return &client{
		send: make(chan outbound, 16),
		quit: make(chan struct{}),
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.quit) })
}

// hub fans session updates out to websocket clients.
type hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[string]map[*client]struct{})}
}

func (h *hub) subscribe(id string) *client {
	c := newClient()
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[id]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[id] = set
	}
	set[c] = struct{}{}
	return c
}

func (h *hub) unsubscribe(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[id]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, id)
		}
	}
	c.close()
}

// publish delivers msg to every client of the session. A client whose
// buffer is full misses the update; the next one carries the full state.
func (h *hub) publish(id string, msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[id] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// closeSession disconnects all clients of a session.
func (h *hub) closeSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[id] {
		c.close()
	}
	delete(h.clients, id)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, id)
	}
}
