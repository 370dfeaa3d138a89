package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RoomStore is the in-memory registry of live rooms.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*Game
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[uuid.UUID]*Game),
	}
}

func (s *RoomStore) AddRoom(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[g.ID] = g
}

func (s *RoomStore) GetRoom(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.rooms[id]
	return g, exists
}

func (s *RoomStore) DeleteRoom(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// RoomSummary is the listing view of a room.
type RoomSummary struct {
	ID      uuid.UUID `json:"id"`
	Phase   string    `json:"phase"`
	Players int       `json:"players"`
	Humans  int       `json:"humans"`
	Open    int       `json:"openSeats"`
}

// List summarises every room. Each room is locked briefly in turn, never two at once.
func (s *RoomStore) List() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Game, 0, len(s.rooms))
	for _, g := range s.rooms {
		rooms = append(rooms, g)
	}
	s.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, g := range rooms {
		g.Mu.Lock()
		occupied := len(g.occupiedSeats())
		humans := 0
		for i := range g.Seats {
			if !g.Seats[i].Empty() && !g.Seats[i].IsBot {
				humans++
			}
		}
		out = append(out, RoomSummary{ID: g.ID, Phase: string(g.Phase), Players: occupied, Humans: humans, Open: SeatCount - occupied})
		g.Mu.Unlock()
	}
	return out
}

// PruneEmpty removes rooms older than grace in which no human is seated and for which idle
// reports true. It returns the removed ids.
func (s *RoomStore) PruneEmpty(idle func(id uuid.UUID) bool, grace time.Duration) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []uuid.UUID
	for id, g := range s.rooms {
		if idle != nil && !idle(id) {
			continue
		}
		g.Mu.Lock()
		empty := !g.hasHumans() && g.now().Sub(g.CreatedAt) > grace
		if empty {
			g.resolver.Reset()
			for _, t := range g.botTimers {
				t.Stop()
			}
		}
		g.Mu.Unlock()
		if empty {
			delete(s.rooms, id)
			removed = append(removed, id)
		}
	}
	return removed
}
