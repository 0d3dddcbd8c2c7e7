package http

import "sync"

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub is the connection registry behind app.Broadcaster: one buffered send
// channel per live websocket, written by the service and drained by each
// connection's writer goroutine. Sends never block the emitting handler; a
// full buffer drops the oldest queued message first, so slow clients lag
// rather than stall the session.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]chan outboundMessage
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]chan outboundMessage)}
}

func (h *Hub) register(connID string) <-chan outboundMessage {
	ch := make(chan outboundMessage, 16)
	h.mu.Lock()
	h.conns[connID] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	if ch, ok := h.conns[connID]; ok {
		delete(h.conns, connID)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) ToAll(event string, payload any) {
	msg := outboundMessage{Type: event, Payload: payload}
	h.mu.RLock()
	for _, ch := range h.conns {
		sendDropOldest(ch, msg)
	}
	h.mu.RUnlock()
}

func (h *Hub) ToOne(connID, event string, payload any) {
	h.mu.RLock()
	ch, ok := h.conns[connID]
	if ok {
		sendDropOldest(ch, outboundMessage{Type: event, Payload: payload})
	}
	h.mu.RUnlock()
}

// ConnectionCount reports live websocket connections, joined or not.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// sendDropOldest never blocks the caller: a full buffer loses its oldest
// entry first, and if another sender claims the freed slot before us the
// message itself is dropped.
func sendDropOldest(ch chan outboundMessage, msg outboundMessage) {
	select {
	case ch <- msg:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
}
