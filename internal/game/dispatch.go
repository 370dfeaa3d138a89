// internal/game/dispatch.go
package game

import (
	"github.com/jason-s-yu/cardhub/internal/models"
)

// dispatch routes an action to its handler. Handlers validate everything before mutating, so an
// error always means the room is unchanged. Assumes lock is held.
func (g *Game) dispatch(action models.Action) error {
	switch a := action.(type) {
	case models.JoinSlot:
		return g.joinSlot(a)
	case models.AddBot:
		return g.addBot(a)
	case models.RemovePlayer:
		return g.removePlayer(a)
	case models.StartGame:
		return g.startGame(a)
	case models.NewGame:
		return g.newGame(a)
	case models.RequestNewGame:
		return g.requestNewGame(a)
	case models.AcceptNewGame:
		return g.acceptNewGame(a)
	case models.DeclineNewGame:
		return g.declineNewGame(a)
	}

	seat := g.seatOf(action.Actor())
	if seat < 0 {
		return ErrNotSeated
	}

	switch a := action.(type) {
	case models.PlayCard:
		return g.playCard(seat, a)
	case models.PlayCombo:
		return g.playCombo(seat, a)
	case models.RespondCounter:
		return g.respondCounter(seat, a)
	case models.DrawCard:
		return g.drawCard(seat)
	case models.Defuse:
		return g.defuse(seat)
	case models.InsertKitten:
		return g.insertKitten(seat, a)
	case models.GiveFavor:
		return g.handleGiveFavor(seat, a)
	case models.ReorderFuture:
		return g.handleReorderFuture(seat, a)
	}
	return models.ErrUnknownAction
}

// requireTurn checks the phase first so that turn actions during a window report ErrWrongPhase.
func (g *Game) requireTurn(seat int, phases ...models.Phase) error {
	ok := false
	for _, p := range phases {
		if g.Phase == p {
			ok = true
			break
		}
	}
	if !ok {
		return ErrWrongPhase
	}
	if seat != g.Turn.Current || !g.Seats[seat].Active() {
		return ErrNotYourTurn
	}
	return nil
}

// playableAlone reports whether a card of kind k has a single-card effect.
func playableAlone(k models.CardKind) bool {
	switch k {
	case models.KindBomb, models.KindDefuse, models.KindCounter:
		return false
	}
	return !k.IsSuit()
}

func (g *Game) playCard(seat int, a models.PlayCard) error {
	if err := g.requireTurn(seat, models.PhasePlaying); err != nil {
		return err
	}
	hand := g.Seats[seat].Hand
	if a.CardIndex < 0 || a.CardIndex >= len(hand) {
		return ErrBadCardIndex
	}
	card := hand[a.CardIndex]
	if !playableAlone(card.Kind) || !card.Kind.Valid() {
		return ErrUnplayable
	}
	target := -1
	if card.Kind.NeedsTarget() {
		target = g.seatOf(a.TargetPlayerID)
		if !g.validTarget(seat, target) {
			return ErrBadTarget
		}
	}

	g.Seats[seat].Hand, _, _ = models.RemoveCardAt(hand, a.CardIndex)
	g.DiscardPile = append(g.DiscardPile, card)
	played := []models.Card{card}
	ts := g.recordDiscard(seat, played, targetPtr(target))
	g.LastAction = &models.LastAction{Type: models.ActionPlayCard, Seat: seat, Target: targetPtr(target), Cards: played}

	return g.propose(a, &Effect{Kind: card.Kind, Actor: seat, Target: target, Cards: played, Stamp: ts})
}

func (g *Game) playCombo(seat int, a models.PlayCombo) error {
	if err := g.requireTurn(seat, models.PhasePlaying); err != nil {
		return err
	}
	hand := g.Seats[seat].Hand
	cards, err := checkCombo(hand, a.CardIndices, a.RequestedKind)
	if err != nil {
		return err
	}
	victim := -1
	if len(cards) != 5 {
		victim = g.seatOf(a.TargetPlayerID)
		if !g.validTarget(seat, victim) {
			return ErrBadTarget
		}
	}

	g.Seats[seat].Hand = removeIndices(hand, a.CardIndices)
	g.DiscardPile = append(g.DiscardPile, cards...)
	ts := g.recordDiscard(seat, cards, targetPtr(victim))
	g.LastAction = &models.LastAction{Type: models.ActionPlayCombo, Seat: seat, Target: targetPtr(victim), Cards: cards}

	combo := &ComboRequest{
		Initiator: seat,
		CardCount: len(cards),
		Victim:    victim,
		NamedKind: a.RequestedKind,
		Played:    cards,
	}
	return g.propose(a, &Effect{Actor: seat, Target: victim, Cards: cards, Combo: combo, Stamp: ts})
}

func (g *Game) respondCounter(seat int, a models.RespondCounter) error {
	if g.Phase != models.PhaseNopeWindow || g.resolver.Pending() == nil {
		return ErrWindowClosed
	}
	if !g.Seats[seat].Active() {
		return ErrNotSeated
	}

	switch a.Response {
	case models.ResponseCounter:
		if !g.resolver.CanCounter(seat) {
			return ErrNotWaiting
		}
		hand := g.Seats[seat].Hand
		idx := models.IndexOfKind(hand, models.KindCounter)
		if a.CardID != 0 {
			idx = models.IndexOfID(hand, a.CardID)
			if idx >= 0 && hand[idx].Kind != models.KindCounter {
				idx = -1
			}
		}
		if idx < 0 {
			return ErrNoCounterCard
		}
		var card models.Card
		g.Seats[seat].Hand, card, _ = models.RemoveCardAt(hand, idx)
		g.DiscardPile = append(g.DiscardPile, card)
		if err := g.resolver.SubmitCounter(seat, card); err != nil {
			return err
		}
		g.LastAction = &models.LastAction{Type: models.ActionRespondCounter, Seat: seat, Cards: []models.Card{card}, Note: "counter"}
	case models.ResponseAllow:
		if err := g.resolver.SubmitAllow(seat); err != nil {
			return err
		}
	default:
		return ErrWrongPhase
	}

	g.maybeCloseWindow()
	return nil
}

func (g *Game) drawCard(seat int) error {
	if err := g.requireTurn(seat, models.PhasePlaying); err != nil {
		return err
	}
	return g.drawFor(seat, false)
}

func (g *Game) defuse(seat int) error {
	if err := g.requireTurn(seat, models.PhaseDefusing); err != nil {
		return err
	}
	hand := g.Seats[seat].Hand
	idx := models.IndexOfKind(hand, models.KindDefuse)
	if idx < 0 {
		return ErrBadCardIndex
	}
	var card models.Card
	g.Seats[seat].Hand, card, _ = models.RemoveCardAt(hand, idx)
	g.DiscardPile = append(g.DiscardPile, card)
	ts := g.recordDiscard(seat, []models.Card{card}, nil)
	g.sealEntry(ts, nil, false)
	g.LastAction = &models.LastAction{Type: models.ActionDefuse, Seat: seat, Cards: []models.Card{card}}
	g.Phase = models.PhaseInsertingKitten
	return nil
}

func (g *Game) insertKitten(seat int, a models.InsertKitten) error {
	if err := g.requireTurn(seat, models.PhaseInsertingKitten, models.PhaseBurying); err != nil {
		return err
	}
	if err := g.insertHeld(a.Position, a.Index); err != nil {
		return err
	}
	g.LastAction = &models.LastAction{Type: models.ActionInsertKitten, Seat: seat}
	g.endTurn()
	return nil
}

func (g *Game) handleGiveFavor(seat int, a models.GiveFavor) error {
	if g.Phase != models.PhaseFavorGiving || g.favor == nil {
		return ErrWrongPhase
	}
	if seat != g.favor.Giver {
		return ErrNotYourTurn
	}
	return g.giveFavor(a.CardIndex)
}

func (g *Game) handleReorderFuture(seat int, a models.ReorderFuture) error {
	if err := g.requireTurn(seat, models.PhaseAlterFuture); err != nil {
		return err
	}
	if err := g.reorderFuture(seat, a.Order); err != nil {
		return err
	}
	g.LastAction = &models.LastAction{Type: models.ActionReorderFuture, Seat: seat}
	return nil
}
