// internal/game/effects.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/models"
)

// Effect is a card play that has left the actor's hand and waits to be applied, either
// immediately or when its counter window closes without being cancelled.
type Effect struct {
	Kind   models.CardKind
	Actor  int
	Target int // -1 when the play has no target
	Cards  []models.Card
	Combo  *ComboRequest
	Stamp  int64 // discard history entry of the play
}

// favorState tracks an unresolved favor: Giver must hand one card to Receiver.
type favorState struct {
	Receiver int
	Giver    int
}

// attackVictim is the seat an attack-class effect lands on: the chosen target, or the next active
// seat for a plain attack and for a target that left during the window.
func (g *Game) attackVictim(e *Effect) (int, bool) {
	if e.Kind == models.KindTargetedAttack && g.validTarget(e.Actor, e.Target) {
		return e.Target, true
	}
	return g.Turn.Next(g.activeSeat)
}

// apply mutates the room for a resolved effect. Assumes lock is held and the phase is PLAYING.
func (g *Game) apply(e *Effect) {
	if e.Combo != nil {
		g.resolveCombo(e.Combo)
		return
	}

	if e.Kind.IsAttack() {
		if victim, ok := g.attackVictim(e); ok {
			g.passAttack(victim)
		}
		return
	}

	switch e.Kind {
	case models.KindSkip:
		g.endTurn()
	case models.KindReverse:
		g.Turn.Reverse(len(g.activeSeats()))
		g.endTurn()
	case models.KindExtraTurns:
		if g.Turn.ExtraTurnsOwed == 0 {
			g.Turn.ExtraTurnsOwed = 1
		}
		g.Turn.AddExtraTurns(g.Rules.ExtraTurns - 1)
	case models.KindFavor:
		if !g.validTarget(e.Actor, e.Target) || len(g.Seats[e.Target].Hand) == 0 {
			return
		}
		g.favor = &favorState{Receiver: e.Actor, Giver: e.Target}
		g.Phase = models.PhaseFavorGiving
	case models.KindShuffle:
		g.DrawPile = Shuffle(g.DrawPile, g.rng)
	case models.KindPeek3:
		g.addPrivateLog(models.LogPeek, e.Actor, nil, g.topCards(3), e.Actor)
	case models.KindAlterFuture3, models.KindAlterFuture5:
		n := 3
		if e.Kind == models.KindAlterFuture5 {
			n = 5
		}
		if n > len(g.DrawPile) {
			n = len(g.DrawPile)
		}
		if n == 0 {
			return
		}
		g.futureCount = n
		g.Phase = models.PhaseAlterFuture
		g.addPrivateLog(models.LogAlterFuture, e.Actor, nil, g.topCards(n), e.Actor)
	case models.KindCatomicBomb:
		g.catomic()
		g.endTurn()
	case models.KindDrawFromBottom:
		if err := g.drawFor(e.Actor, true); err != nil {
			g.log.WithError(err).Debug("draw from bottom had nothing to draw")
		}
	case models.KindBury:
		g.beginBury(e.Actor)
	default:
		g.log.Warnf("no effect for card kind %s", e.Kind)
	}
}

// passAttack ends the attacker's turn and hands the stack plus the configured multiple to target.
func (g *Game) passAttack(target int) {
	g.Turn.PassStack(target, g.Rules.AttackMultiple)
	g.Phase = models.PhasePlaying
}

// drawFor moves one card from the draw pile to seat. Bombs either open the defuse sub-phase or
// eliminate the seat on the spot. Any other card ends the turn. Assumes lock is held.
func (g *Game) drawFor(seat int, fromBottom bool) error {
	card, ok := g.takeFromPile(fromBottom)
	if !ok {
		return ErrEmptyPiles
	}

	if card.Kind == models.KindBomb {
		g.LastAction = &models.LastAction{Type: models.ActionDrawCard, Seat: seat, Cards: []models.Card{card}, Note: "bomb"}
		if g.Seats[seat].HasKind(models.KindDefuse) {
			g.held = &card
			g.Phase = models.PhaseDefusing
			return nil
		}
		g.eliminate(seat, card)
		return nil
	}

	g.Seats[seat].Hand = append(g.Seats[seat].Hand, card)
	g.addPrivateLog(models.LogDrawn, seat, nil, []models.Card{card}, seat)
	g.LastAction = &models.LastAction{Type: models.ActionDrawCard, Seat: seat}
	g.endTurn()
	return nil
}

// takeFromPile pops the top (or bottom) card, reshuffling the discard pile first if the draw pile
// is empty. ok is false only when both piles are empty.
func (g *Game) takeFromPile(fromBottom bool) (models.Card, bool) {
	if len(g.DrawPile) == 0 {
		g.reshuffleDiscard()
	}
	n := len(g.DrawPile)
	if n == 0 {
		return models.Card{}, false
	}
	if fromBottom {
		card := g.DrawPile[0]
		g.DrawPile = g.DrawPile[1:]
		return card, true
	}
	card := g.DrawPile[n-1]
	g.DrawPile = g.DrawPile[:n-1]
	return card, true
}

// reshuffleDiscard turns every discard but the top one into a fresh draw pile. A lone discard
// is taken too, so a draw only fails when both piles are empty.
func (g *Game) reshuffleDiscard() {
	n := len(g.DiscardPile)
	if n == 0 {
		return
	}
	if n == 1 {
		g.DrawPile = []models.Card{g.DiscardPile[0]}
		g.DiscardPile = nil
		return
	}
	top := g.DiscardPile[n-1]
	g.DrawPile = Shuffle(g.DiscardPile[:n-1], g.rng)
	g.DiscardPile = []models.Card{top}
	g.log.WithField("size", len(g.DrawPile)).Info("reshuffled discard pile into draw pile")
	g.logAction(uuid.Nil, "pile_reshuffled", map[string]interface{}{"newSize": len(g.DrawPile)})
}

// topCards returns up to n cards from the top of the draw pile, top first.
func (g *Game) topCards(n int) []models.Card {
	if n > len(g.DrawPile) {
		n = len(g.DrawPile)
	}
	out := make([]models.Card, n)
	for i := 0; i < n; i++ {
		out[i] = g.DrawPile[len(g.DrawPile)-1-i]
	}
	return out
}

// insertHeld puts the held card back into the draw pile. index counts from the top.
func (g *Game) insertHeld(pos models.InsertPosition, index int) error {
	if g.held == nil {
		return ErrWrongPhase
	}
	n := len(g.DrawPile)
	var fromTop int
	switch pos {
	case models.InsertTop:
		fromTop = 0
	case models.InsertBottom:
		fromTop = n
	case models.InsertMiddle:
		fromTop = n / 2
	case models.InsertRandom:
		fromTop = g.rng.Intn(n + 1)
	case models.InsertIndex:
		if index < 0 || index > n {
			return ErrBadPosition
		}
		fromTop = index
	default:
		return ErrBadPosition
	}

	at := n - fromTop
	pile := make([]models.Card, 0, n+1)
	pile = append(pile, g.DrawPile[:at]...)
	pile = append(pile, *g.held)
	pile = append(pile, g.DrawPile[at:]...)
	g.DrawPile = pile
	g.held = nil
	return nil
}

// catomic moves every bomb to the top of the draw pile and shuffles the rest beneath them.
func (g *Game) catomic() {
	var bombs, rest []models.Card
	for _, c := range g.DrawPile {
		if c.Kind == models.KindBomb {
			bombs = append(bombs, c)
		} else {
			rest = append(rest, c)
		}
	}
	g.DrawPile = append(Shuffle(rest, g.rng), bombs...)
}

// beginBury draws the top card face down and waits for the actor to choose where it goes back.
func (g *Game) beginBury(seat int) {
	card, ok := g.takeFromPile(false)
	if !ok {
		g.endTurn()
		return
	}
	g.held = &card
	g.Phase = models.PhaseBurying
	g.addPrivateLog(models.LogBury, seat, nil, nil, seat)
}

// giveFavor moves the giver's chosen card to the receiver.
func (g *Game) giveFavor(cardIndex int) error {
	f := g.favor
	hand, card, ok := models.RemoveCardAt(g.Seats[f.Giver].Hand, cardIndex)
	if !ok {
		return ErrBadCardIndex
	}
	g.Seats[f.Giver].Hand = hand
	g.Seats[f.Receiver].Hand = append(g.Seats[f.Receiver].Hand, card)
	g.addPrivateLog(models.LogFavor, f.Giver, intPtr(f.Receiver), []models.Card{card}, f.Giver, f.Receiver)
	g.LastAction = &models.LastAction{Type: models.ActionGiveFavor, Seat: f.Giver, Target: intPtr(f.Receiver)}
	g.favor = nil
	g.Phase = models.PhasePlaying
	return nil
}

// reorderFuture rewrites the revealed top cards. order[i] names the revealed position of the card
// that ends up at position i.
func (g *Game) reorderFuture(actor int, order []int) error {
	n := g.futureCount
	if n > len(g.DrawPile) {
		n = len(g.DrawPile)
	}
	if len(order) != n {
		return ErrBadOrder
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n || seen[o] {
			return ErrBadOrder
		}
		seen[o] = true
	}

	top := g.topCards(n)
	for i, o := range order {
		g.DrawPile[len(g.DrawPile)-1-i] = top[o]
	}
	g.futureCount = 0
	g.Phase = models.PhasePlaying
	g.addPrivateLog(models.LogAlterFuture, actor, nil, g.topCards(n), actor)
	return nil
}
