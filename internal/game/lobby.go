// internal/game/lobby.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/bot"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/sirupsen/logrus"
)

// freeSeat resolves a requested seat, -1 meaning the lowest empty one.
func (g *Game) freeSeat(requested int) (int, error) {
	if requested < 0 {
		for i := range g.Seats {
			if g.Seats[i].Empty() {
				return i, nil
			}
		}
		return -1, ErrNoFreeSeat
	}
	if requested >= SeatCount {
		return -1, ErrBadTarget
	}
	if !g.Seats[requested].Empty() {
		return -1, ErrSeatTaken
	}
	return requested, nil
}

func (g *Game) hostSeat() int {
	for i := range g.Seats {
		if g.Seats[i].IsHost {
			return i
		}
	}
	return -1
}

func (g *Game) isHost(playerID uuid.UUID) bool {
	seat := g.seatOf(playerID)
	return seat >= 0 && g.Seats[seat].IsHost
}

// promoteHost hands the host flag to the lowest seated human, if any.
func (g *Game) promoteHost() {
	if g.hostSeat() >= 0 {
		return
	}
	for i := range g.Seats {
		if !g.Seats[i].Empty() && !g.Seats[i].IsBot {
			g.Seats[i].IsHost = true
			return
		}
	}
}

// joinSlot seats a human. A player already seated moves to the new seat. The first human in an
// unhosted room becomes host.
func (g *Game) joinSlot(a models.JoinSlot) error {
	if g.Phase != models.PhaseWaiting {
		return ErrWrongPhase
	}
	if a.PlayerID == uuid.Nil {
		return ErrNotSeated
	}
	seat, err := g.freeSeat(a.Seat)
	if err != nil {
		return err
	}

	wasHost := false
	if old := g.seatOf(a.PlayerID); old >= 0 {
		wasHost = g.Seats[old].IsHost
		g.Seats[old].Clear()
	}
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", seat+1)
	}
	g.Seats[seat] = models.Seat{Index: seat, PlayerID: a.PlayerID, Name: name, IsHost: wasHost}
	g.promoteHost()
	g.LastAction = &models.LastAction{Type: models.ActionJoinSlot, Seat: seat}
	return nil
}

func (g *Game) addBot(a models.AddBot) error {
	if g.Phase != models.PhaseWaiting {
		return ErrWrongPhase
	}
	if !g.isHost(a.PlayerID) {
		return ErrNotHost
	}
	seat, err := g.freeSeat(a.Seat)
	if err != nil {
		return err
	}
	id, _ := uuid.NewRandom()
	g.Seats[seat] = models.Seat{Index: seat, PlayerID: id, Name: bot.Name(g.botNames()), IsBot: true}
	g.LastAction = &models.LastAction{Type: models.ActionAddBot, Seat: seat}
	return nil
}

func (g *Game) botNames() []string {
	var names []string
	for i := range g.Seats {
		if g.Seats[i].IsBot {
			names = append(names, g.Seats[i].Name)
		}
	}
	return names
}

// removePlayer frees a seat while waiting. During a game a player may only remove itself, which
// forfeits: the seat is eliminated but stays occupied until the game is reset.
func (g *Game) removePlayer(a models.RemovePlayer) error {
	target := a.TargetPlayerID
	if target == uuid.Nil {
		target = a.PlayerID
	}
	seat := g.seatOf(target)
	if seat < 0 {
		return ErrBadTarget
	}
	self := target == a.PlayerID

	switch {
	case g.Phase == models.PhaseWaiting:
		if !self && !g.isHost(a.PlayerID) {
			return ErrNotHost
		}
		g.Seats[seat].Clear()
		delete(g.votes, seat)
		g.promoteHost()
	case self && g.Phase.InGame():
		if g.Seats[seat].Eliminated {
			return ErrWrongPhase
		}
		g.log.WithField("seat", seat).Info("player forfeited")
		g.eliminate(seat)
	default:
		return ErrWrongPhase
	}
	g.LastAction = &models.LastAction{Type: models.ActionRemovePlayer, Seat: seat}
	return nil
}

// startGame builds and deals a fresh deck for the occupied seats.
func (g *Game) startGame(a models.StartGame) error {
	if g.Phase != models.PhaseWaiting {
		return ErrWrongPhase
	}
	if !g.isHost(a.PlayerID) {
		return ErrNotHost
	}
	seats := g.occupiedSeats()
	if len(seats) < 2 {
		return ErrNotEnoughPlayers
	}

	rules := g.Rules
	if g.Rules.Deck == nil {
		rules.Deck = DefaultDeckConfig()
	} else {
		rules.Deck = g.Rules.Deck.Clone()
	}
	deck := BuildDeck(rules.Deck, len(seats), &g.ids)
	hands, pile := deal(deck, seats, rules.HandSize, g.rng)
	for _, s := range seats {
		g.Seats[s].Hand = hands[s]
		g.Seats[s].Eliminated = false
	}
	g.DrawPile = pile
	g.DiscardPile = nil
	g.Turn = NewTurnLedger(SeatCount, seats[0])
	g.Phase = models.PhasePlaying
	g.LastAction = &models.LastAction{Type: models.ActionStartGame, Seat: g.seatOf(a.PlayerID)}
	g.log.WithFields(logrus.Fields{"players": len(seats), "deck": len(deck)}).Info("game started")
	return nil
}

// reset clears everything but seat occupancy and returns to WAITING.
func (g *Game) reset() {
	g.resolver.Reset()
	for i := range g.Seats {
		g.Seats[i].Hand = nil
		g.Seats[i].Eliminated = false
	}
	g.DrawPile = nil
	g.DiscardPile = nil
	g.History = nil
	g.PrivateLogs = nil
	g.Winner = nil
	g.held = nil
	g.favor = nil
	g.futureCount = 0
	g.votes = make(map[int]bool)
	g.Turn = NewTurnLedger(SeatCount, 0)
	g.Phase = models.PhaseWaiting
}

func (g *Game) newGame(a models.NewGame) error {
	if g.Phase != models.PhaseEnded {
		return ErrWrongPhase
	}
	if !g.isHost(a.PlayerID) {
		return ErrNotHost
	}
	g.reset()
	g.LastAction = &models.LastAction{Type: models.ActionNewGame, Seat: g.seatOf(a.PlayerID)}
	return nil
}

// humanSeat returns the seat of a seated human, or -1.
func (g *Game) humanSeat(playerID uuid.UUID) int {
	seat := g.seatOf(playerID)
	if seat < 0 || g.Seats[seat].IsBot {
		return -1
	}
	return seat
}

func (g *Game) requestNewGame(a models.RequestNewGame) error {
	if g.Phase != models.PhaseEnded {
		return ErrWrongPhase
	}
	seat := g.humanSeat(a.PlayerID)
	if seat < 0 {
		return ErrNotSeated
	}
	g.votes = map[int]bool{seat: true}
	g.LastAction = &models.LastAction{Type: models.ActionRequestNewGame, Seat: seat}
	g.tallyVotes()
	return nil
}

func (g *Game) acceptNewGame(a models.AcceptNewGame) error {
	if g.Phase != models.PhaseEnded {
		return ErrWrongPhase
	}
	seat := g.humanSeat(a.PlayerID)
	if seat < 0 {
		return ErrNotSeated
	}
	if len(g.votes) == 0 {
		return ErrNoVote
	}
	g.votes[seat] = true
	g.LastAction = &models.LastAction{Type: models.ActionAcceptNewGame, Seat: seat}
	g.tallyVotes()
	return nil
}

func (g *Game) declineNewGame(a models.DeclineNewGame) error {
	if g.Phase != models.PhaseEnded {
		return ErrWrongPhase
	}
	seat := g.humanSeat(a.PlayerID)
	if seat < 0 {
		return ErrNotSeated
	}
	if len(g.votes) == 0 {
		return ErrNoVote
	}
	g.votes = make(map[int]bool)
	g.LastAction = &models.LastAction{Type: models.ActionDeclineNewGame, Seat: seat, Note: "vote failed"}
	return nil
}

// tallyVotes resets the room once every seated human has accepted. Bots always agree.
func (g *Game) tallyVotes() {
	for i := range g.Seats {
		s := &g.Seats[i]
		if s.Empty() || s.IsBot {
			continue
		}
		if !g.votes[i] {
			return
		}
	}
	g.reset()
	g.LastAction = &models.LastAction{Type: models.ActionNewGame, Seat: -1, Note: "vote passed"}
}
