// internal/handlers/hub.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	// sendQueueSize bounds how far a slow peer may fall behind before messages are dropped.
	sendQueueSize = 32
	writeTimeout  = 3 * time.Second
)

// peer is one connection's outbound queue. A single writer drains it, so a peer receives
// messages in the order they were queued.
type peer struct {
	playerID uuid.UUID
	send     chan []byte
}

// Hub tracks the open connections of one room and fans snapshots out to them.
// It keeps its own lock so Broadcast can run while the room lock is held.
type Hub struct {
	roomID uuid.UUID
	logger *logrus.Logger

	mu    sync.Mutex
	peers map[*websocket.Conn]*peer
}

func NewHub(roomID uuid.UUID, logger *logrus.Logger) *Hub {
	return &Hub{
		roomID: roomID,
		logger: logger,
		peers:  make(map[*websocket.Conn]*peer),
	}
}

// Add registers conn for playerID and starts its writer. greeting, if any, is queued ahead of
// every broadcast.
func (h *Hub) Add(conn *websocket.Conn, playerID uuid.UUID, greeting ...interface{}) {
	p := &peer{playerID: playerID, send: make(chan []byte, sendQueueSize)}
	for _, msg := range greeting {
		if data, ok := h.marshal(msg); ok {
			p.send <- data
		}
	}

	h.mu.Lock()
	h.peers[conn] = p
	h.mu.Unlock()

	go h.writeLoop(conn, p)
}

// Remove forgets conn and stops its writer once the queue is drained.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	p, ok := h.peers[conn]
	delete(h.peers, conn)
	h.mu.Unlock()
	if ok {
		close(p.send)
	}
}

// Len is the number of open connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Send queues msg for conn only. It reports false if conn is not registered or its queue is full.
func (h *Hub) Send(conn *websocket.Conn, msg interface{}) bool {
	data, ok := h.marshal(msg)
	if !ok {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.peers[conn]
	if !ok {
		return false
	}
	return h.enqueue(p, data)
}

// Broadcast queues snap for every connection. It never blocks on a slow peer.
func (h *Hub) Broadcast(snap game.Snapshot) {
	data := game.MarshalSnapshot(snap)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.peers {
		if !h.enqueue(p, data) {
			h.logger.WithFields(logrus.Fields{
				"room":    h.roomID,
				"player":  p.playerID,
				"version": snap.Version,
			}).Warn("send queue full, dropping snapshot")
		}
	}
}

// enqueue assumes h.mu is held, which keeps Remove from closing the channel underneath it.
func (h *Hub) enqueue(p *peer, data []byte) bool {
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) marshal(msg interface{}) ([]byte, bool) {
	if data, ok := msg.([]byte); ok {
		return data, true
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).WithField("room", h.roomID).Error("failed to marshal websocket message")
		return nil, false
	}
	return data, true
}

// writeLoop writes queued messages in order until Remove closes the queue. After a failed write
// the rest is discarded; the read loop notices the broken connection and removes it.
func (h *Hub) writeLoop(conn *websocket.Conn, p *peer) {
	broken := false
	for data := range p.send {
		if broken {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			broken = true
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				h.logger.WithError(err).WithFields(logrus.Fields{
					"room":   h.roomID,
					"player": p.playerID,
				}).Warn("failed to write to websocket")
			}
		}
	}
}
