package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// FeedHub fans activity lifecycle events out to every connected websocket
// client, so dashboards can refresh leaderboards without polling.
type FeedHub struct {
	mu      sync.RWMutex
	clients map[*FeedClient]struct{}
}

type FeedClient struct {
	UserID uint
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// Write sends one frame. gorilla/websocket allows a single concurrent writer
// per connection, and both Broadcast and the controller's ping loop write, so
// every frame goes through this lock.
func (c *FeedClient) Write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*FeedClient]struct{})}
}

func (h *FeedHub) Register(c *FeedClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *FeedHub) Unregister(c *FeedClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Broadcast sends payload to every client. Write errors are ignored; a dead
// connection is reaped when its reader loop unregisters it.
func (h *FeedHub) Broadcast(payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.Write(websocket.TextMessage, msg)
	}
}
