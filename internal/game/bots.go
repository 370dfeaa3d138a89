// internal/game/bots.go
package game

import (
	"github.com/jason-s-yu/cardhub/internal/bot"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/sirupsen/logrus"
)

// scheduleBots queues a delayed decision for every bot that has to act in the committed state.
// Pending decisions from earlier states are cancelled first. Assumes lock is held and runs after
// the broadcast, so a bot never reacts to a state peers have not seen.
func (g *Game) scheduleBots() {
	for _, t := range g.botTimers {
		t.Stop()
	}
	g.botTimers = g.botTimers[:0]

	version := g.version
	for _, seat := range g.botsToAct() {
		seat := seat
		t := g.sched.AfterFunc(g.BotThinkDelay, func() {
			g.Mu.Lock()
			defer g.Mu.Unlock()
			g.runBot(seat, version)
		})
		g.botTimers = append(g.botTimers, t)
	}
}

// botsToAct lists the bot seats that owe a move in the current phase.
func (g *Game) botsToAct() []int {
	isBot := func(seat int) bool {
		return seat >= 0 && seat < SeatCount && g.Seats[seat].IsBot && g.Seats[seat].Active()
	}

	switch g.Phase {
	case models.PhaseNopeWindow:
		w := g.resolver.Pending()
		if w == nil {
			return nil
		}
		var seats []int
		for _, seat := range g.activeSeats() {
			if !isBot(seat) || seat == w.LastActor() {
				continue
			}
			if _, answered := w.Responses[seat]; answered {
				continue
			}
			seats = append(seats, seat)
		}
		return seats
	case models.PhaseFavorGiving:
		if g.favor != nil && isBot(g.favor.Giver) {
			return []int{g.favor.Giver}
		}
	case models.PhasePlaying, models.PhaseDefusing, models.PhaseInsertingKitten, models.PhaseBurying, models.PhaseAlterFuture:
		if isBot(g.Turn.Current) {
			return []int{g.Turn.Current}
		}
	}
	return nil
}

// runBot executes one scheduled decision. A decision computed for an older state is dropped;
// the newer state scheduled its own.
func (g *Game) runBot(seat int, version uint64) {
	if g.version != version || !g.Seats[seat].IsBot || !g.Seats[seat].Active() {
		return
	}
	view := g.botView(seat)
	action := bot.Decide(g.Seats[seat].Hand, view)
	if action == nil {
		return
	}
	if err := g.handle(action); err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{"seat": seat, "action": action.Type()}).Warn("bot chose an illegal move")
		if fallback := g.fallbackAction(seat); fallback != nil {
			_ = g.handle(fallback)
		}
	}
}

// fallbackAction is the simplest legal move for seat, used if a bot decision is rejected.
func (g *Game) fallbackAction(seat int) models.Action {
	id := g.Seats[seat].PlayerID
	switch g.Phase {
	case models.PhaseNopeWindow:
		return models.RespondCounter{PlayerID: id, Response: models.ResponseAllow}
	case models.PhasePlaying:
		return models.DrawCard{PlayerID: id}
	case models.PhaseDefusing:
		return models.Defuse{PlayerID: id}
	case models.PhaseInsertingKitten, models.PhaseBurying:
		return models.InsertKitten{PlayerID: id, Position: models.InsertRandom}
	case models.PhaseFavorGiving:
		return models.GiveFavor{PlayerID: id, CardIndex: 0}
	case models.PhaseAlterFuture:
		order := make([]int, g.futureCount)
		for i := range order {
			order[i] = i
		}
		return models.ReorderFuture{PlayerID: id, Order: order}
	}
	return nil
}

// botView builds what seat may see: public state plus its own private reveals.
func (g *Game) botView(seat int) bot.View {
	v := bot.View{
		Seat:           seat,
		PlayerID:       g.Seats[seat].PlayerID,
		Phase:          g.Phase,
		CurrentSeat:    g.Turn.Current,
		ExtraTurnsOwed: g.Turn.ExtraTurnsOwed,
		DrawPileSize:   len(g.DrawPile),
		DiscardKinds:   make(map[models.CardKind]bool),
	}
	for _, c := range g.DiscardPile {
		v.DiscardKinds[c.Kind] = true
	}
	for _, s := range g.activeSeats() {
		if s == seat {
			continue
		}
		v.Opponents = append(v.Opponents, bot.Opponent{Seat: s, PlayerID: g.Seats[s].PlayerID, HandSize: len(g.Seats[s].Hand)})
	}
	if g.Phase == models.PhaseAlterFuture && seat == g.Turn.Current {
		v.Future = g.topCards(g.futureCount)
	}

	if w := g.resolver.Pending(); w != nil {
		wv := &bot.WindowView{
			Proposer:      w.Proposer,
			Combo:         w.Effect.Combo != nil,
			Kind:          w.Effect.Kind,
			Target:        w.Effect.Target,
			AttackLandsOn: -1,
			LastCounterer: w.LastCounterer(),
			CounterCount:  w.CounterCount,
		}
		if w.Effect.Kind == models.KindAttack {
			ledger := g.Turn
			ledger.Current = w.Proposer
			if next, ok := ledger.Next(g.activeSeat); ok {
				wv.AttackLandsOn = next
			}
		}
		v.Window = wv
	}
	return v
}
