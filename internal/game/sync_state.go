// internal/game/sync_state.go
package game

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/models"
)

// WindowState is the published form of an open counter window.
type WindowState struct {
	Action       models.ActionType              `json:"action"`
	Kind         models.CardKind                `json:"kind,omitempty"`
	Proposer     int                            `json:"proposer"`
	Target       *int                           `json:"target,omitempty"`
	Origin       int64                          `json:"origin"`
	OpenedAt     int64                          `json:"openedAt"`
	DeadlineMs   int64                          `json:"deadline"`
	CounterCount int                            `json:"counterCount"`
	Chain        []models.CounterMove           `json:"chain"`
	Responses    map[int]models.CounterResponse `json:"responses"`
	WaitingSeat  int                            `json:"waitingSeat"` // the seat that cannot counter right now
}

// Snapshot is the full canonical room state sent to every peer. Hands are not redacted here;
// filtering for stricter trust models belongs to the consumer.
type Snapshot struct {
	RoomID          uuid.UUID             `json:"roomId"`
	Version         uint64                `json:"version"`
	Phase           models.Phase          `json:"phase"`
	Rules           HouseRules            `json:"rules"`
	Seats           []models.Seat         `json:"seats"`
	DrawPile        []models.Card         `json:"drawPile"`
	DiscardPile     []models.Card         `json:"discardPile"`
	Turn            TurnLedger            `json:"turn"`
	Window          *WindowState          `json:"window,omitempty"`
	HeldCard        *models.Card          `json:"heldCard,omitempty"`
	FavorGiver      *int                  `json:"favorGiver,omitempty"`
	FutureCount     int                   `json:"futureCount,omitempty"`
	History         []models.DiscardEntry `json:"history"`
	LastAction      *models.LastAction    `json:"lastAction,omitempty"`
	PrivateLogs     []models.PrivateLog   `json:"privateLogs"`
	Winner          *int                  `json:"winner,omitempty"`
	NewGameVotes    []int                 `json:"newGameVotes,omitempty"`
	CounterWindowMs int64                 `json:"counterWindowMs"`
}

// State returns a snapshot of the room.
func (g *Game) State() Snapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshot()
}

// snapshot deep-copies the room so the transport can serialise it after the lock is released.
// Assumes lock is held.
func (g *Game) snapshot() Snapshot {
	snap := Snapshot{
		RoomID:          g.ID,
		Version:         g.version,
		Phase:           g.Phase,
		Rules:           g.Rules,
		Seats:           make([]models.Seat, len(g.Seats)),
		DrawPile:        append([]models.Card(nil), g.DrawPile...),
		DiscardPile:     append([]models.Card(nil), g.DiscardPile...),
		Turn:            g.Turn,
		FutureCount:     g.futureCount,
		History:         make([]models.DiscardEntry, len(g.History)),
		PrivateLogs:     append([]models.PrivateLog(nil), g.PrivateLogs...),
		CounterWindowMs: CounterWindow.Milliseconds(),
	}
	snap.Rules.Deck = g.Rules.Deck.Clone()

	for i, s := range g.Seats {
		s.Hand = append([]models.Card(nil), s.Hand...)
		snap.Seats[i] = s
	}
	copy(snap.History, g.History)
	if g.LastAction != nil {
		la := *g.LastAction
		snap.LastAction = &la
	}
	if g.Winner != nil {
		snap.Winner = intPtr(*g.Winner)
	}
	if g.held != nil {
		c := *g.held
		snap.HeldCard = &c
	}
	if g.favor != nil {
		snap.FavorGiver = intPtr(g.favor.Giver)
	}
	for seat, yes := range g.votes {
		if yes {
			snap.NewGameVotes = append(snap.NewGameVotes, seat)
		}
	}
	sort.Ints(snap.NewGameVotes)

	if w := g.resolver.Pending(); w != nil {
		ws := &WindowState{
			Action:       w.Action.Type(),
			Kind:         w.Effect.Kind,
			Proposer:     w.Proposer,
			Target:       targetPtr(w.Effect.Target),
			Origin:       w.Origin,
			OpenedAt:     w.OpenedAt.UnixMilli(),
			DeadlineMs:   w.Deadline(CounterWindow).UnixMilli(),
			CounterCount: w.CounterCount,
			Chain:        append([]models.CounterMove(nil), w.Chain...),
			Responses:    make(map[int]models.CounterResponse, len(w.Responses)),
			WaitingSeat:  w.LastActor(),
		}
		for seat, r := range w.Responses {
			ws.Responses[seat] = r
		}
		snap.Window = ws
	}
	return snap
}
