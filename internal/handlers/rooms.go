// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/game"
)

type createRoomRequest struct {
	Rules map[string]interface{} `json:"rules,omitempty"`
}

type createRoomResponse struct {
	RoomID   uuid.UUID     `json:"roomId"`
	PlayerID uuid.UUID     `json:"playerId"`
	State    game.Snapshot `json:"state"`
}

// CreateRoomHandler opens an empty room. The optional body {"rules": {...}} overrides the
// default house rules. The caller still has to connect and JOIN_SLOT to take a seat.
func CreateRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		playerID, err := EnsureGuest(w, r)
		if err != nil {
			http.Error(w, "failed to authenticate", http.StatusInternalServerError)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad room request payload", http.StatusBadRequest)
			return
		}
		rules, err := game.ParseRules(req.Rules, game.DefaultHouseRules())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		g := rs.CreateRoom(rules)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(createRoomResponse{RoomID: g.ID, PlayerID: playerID, State: g.State()})
	}
}

// ListRoomsHandler returns a summary of every live room.
func ListRoomsHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rs.Rooms.List())
	}
}

// GuestHandler issues (or confirms) the caller's guest identity.
func GuestHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := EnsureGuest(w, r)
	if err != nil {
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]uuid.UUID{"playerId": playerID})
}
