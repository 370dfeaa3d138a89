// internal/handlers/game_server.go
package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/game"
	"github.com/sirupsen/logrus"
)

// RoomServer owns the room registry and the connection hub of every room.
type RoomServer struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger

	// BotThinkDelay is applied to every room created by this server.
	BotThinkDelay time.Duration

	mu   sync.Mutex
	hubs map[uuid.UUID]*Hub
}

func NewRoomServer(logger *logrus.Logger, botThinkDelay time.Duration) *RoomServer {
	return &RoomServer{
		Rooms:         game.NewRoomStore(),
		Logger:        logger,
		BotThinkDelay: botThinkDelay,
		hubs:          make(map[uuid.UUID]*Hub),
	}
}

// CreateRoom registers a new room with the given rules and wires its broadcast to a fresh hub.
func (rs *RoomServer) CreateRoom(rules game.HouseRules, opts ...game.Option) *game.Game {
	opts = append([]game.Option{game.WithLogger(rs.Logger), game.WithRules(rules)}, opts...)
	g := game.NewGame(opts...)
	hub := NewHub(g.ID, rs.Logger)

	g.Mu.Lock()
	if rs.BotThinkDelay > 0 {
		g.BotThinkDelay = rs.BotThinkDelay
	}
	g.BroadcastFn = hub.Broadcast
	g.OnGameEnd = func(roomID uuid.UUID, winner uuid.UUID) {
		rs.Logger.WithFields(logrus.Fields{"room": roomID, "winner": winner}).Info("room game finished")
	}
	g.Mu.Unlock()

	rs.mu.Lock()
	rs.hubs[g.ID] = hub
	rs.mu.Unlock()
	rs.Rooms.AddRoom(g)
	return g
}

// Hub returns the connection hub of a room.
func (rs *RoomServer) Hub(roomID uuid.UUID) (*Hub, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	h, ok := rs.hubs[roomID]
	return h, ok
}

// Sweep drops rooms that have no seated humans, no open connections and are older than grace.
func (rs *RoomServer) Sweep(grace time.Duration) int {
	idle := func(id uuid.UUID) bool {
		h, ok := rs.Hub(id)
		return !ok || h.Len() == 0
	}
	removed := rs.Rooms.PruneEmpty(idle, grace)

	rs.mu.Lock()
	for _, id := range removed {
		delete(rs.hubs, id)
	}
	rs.mu.Unlock()
	return len(removed)
}
