package models

import "github.com/google/uuid"

// Seat is a fixed slot in a room. An empty seat has PlayerID == uuid.Nil.
type Seat struct {
	Index      int       `json:"index"`
	PlayerID   uuid.UUID `json:"playerId"`
	Name       string    `json:"name"`
	Hand       []Card    `json:"hand"`
	Eliminated bool      `json:"eliminated"`
	IsBot      bool      `json:"isBot"`
	IsHost     bool      `json:"isHost"`
}

// Empty reports whether no one occupies the seat.
func (s *Seat) Empty() bool {
	return s.PlayerID == uuid.Nil
}

// Active reports whether the seat is occupied and still in the game.
func (s *Seat) Active() bool {
	return !s.Empty() && !s.Eliminated
}

// HasKind reports whether the seat holds at least one card of kind k.
func (s *Seat) HasKind(k CardKind) bool {
	return IndexOfKind(s.Hand, k) >= 0
}

// Clear empties the seat, keeping its index.
func (s *Seat) Clear() {
	*s = Seat{Index: s.Index}
}
