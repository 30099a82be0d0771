package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// DeviceConn is one connected client device (pedometer or scale companion
// app) waiting for server events such as payment confirmation.
type DeviceConn struct {
	ClientID uint
	Conn     *websocket.Conn
}

// DeviceHub is the connection registry. It is component-scoped and injected
// where needed; Shutdown closes every connection and refuses late
// registrations, so the registry's lifecycle ends with the process, not
// whenever the last goroutine forgets about it.
type DeviceHub struct {
	mu     sync.RWMutex
	conns  map[uint]map[*DeviceConn]struct{}
	closed bool
}

func NewDeviceHub() *DeviceHub {
	return &DeviceHub{conns: make(map[uint]map[*DeviceConn]struct{})}
}

func (h *DeviceHub) Register(c *DeviceConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		_ = c.Conn.Close()
		return
	}
	if h.conns[c.ClientID] == nil {
		h.conns[c.ClientID] = make(map[*DeviceConn]struct{})
	}
	h.conns[c.ClientID][c] = struct{}{}
}

func (h *DeviceHub) Unregister(c *DeviceConn) {
	h.mu.Lock()
	if set := h.conns[c.ClientID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.ClientID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Notify pushes a payload to every device the client has connected. Write
// failures are ignored; the read loop notices the dead connection.
func (h *DeviceHub) Notify(clientID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[clientID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// Connected reports how many devices a client currently has registered.
func (h *DeviceHub) Connected(clientID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[clientID])
}

func (h *DeviceHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.conns {
		for c := range set {
			_ = c.Conn.Close()
		}
	}
	h.conns = make(map[uint]map[*DeviceConn]struct{})
}
