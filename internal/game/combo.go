// internal/game/combo.go
package game

import (
	"github.com/jason-s-yu/cardhub/internal/models"
)

// ComboRequest is a validated multi-card play awaiting resolution.
type ComboRequest struct {
	Initiator int
	CardCount int // 2, 3 or 5
	Victim    int // -1 for five-card combos, which take from the discard pile
	NamedKind models.CardKind
	Played    []models.Card
}

// checkCombo validates a combo selection against hand and returns the selected cards in index
// order. Two and three card combos must share one kind; five card combos must be five different
// kinds. Bombs never take part.
func checkCombo(hand []models.Card, indices []int, named models.CardKind) ([]models.Card, error) {
	n := len(indices)
	if n != 2 && n != 3 && n != 5 {
		return nil, ErrBadCombo
	}

	seen := make(map[int]bool, n)
	cards := make([]models.Card, 0, n)
	for _, idx := range indices {
		if idx < 0 || idx >= len(hand) {
			return nil, ErrBadCardIndex
		}
		if seen[idx] {
			return nil, ErrBadCombo
		}
		seen[idx] = true
		if hand[idx].Kind == models.KindBomb {
			return nil, ErrBadCombo
		}
		cards = append(cards, hand[idx])
	}

	switch n {
	case 2, 3:
		for _, c := range cards[1:] {
			if c.Kind != cards[0].Kind {
				return nil, ErrBadCombo
			}
		}
	case 5:
		kinds := make(map[models.CardKind]bool, n)
		for _, c := range cards {
			if kinds[c.Kind] {
				return nil, ErrBadCombo
			}
			kinds[c.Kind] = true
		}
	}

	if n >= 3 && (!named.Valid() || named == models.KindBomb) {
		return nil, ErrBadCombo
	}
	return cards, nil
}

// removeIndices returns hand without the cards at indices.
func removeIndices(hand []models.Card, indices []int) []models.Card {
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		drop[idx] = true
	}
	out := make([]models.Card, 0, len(hand)-len(drop))
	for i, c := range hand {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out
}

// resolveCombo moves at most one card to the initiator and records who saw what.
func (g *Game) resolveCombo(c *ComboRequest) {
	switch c.CardCount {
	case 2:
		if !g.validTarget(c.Initiator, c.Victim) || len(g.Seats[c.Victim].Hand) == 0 {
			return
		}
		g.stealAt(c, g.rng.Intn(len(g.Seats[c.Victim].Hand)))
	case 3:
		if !g.validTarget(c.Initiator, c.Victim) {
			return
		}
		idx := models.IndexOfKind(g.Seats[c.Victim].Hand, c.NamedKind)
		if idx < 0 {
			g.addPrivateLog(models.LogSteal, c.Initiator, intPtr(c.Victim), nil, c.Initiator, c.Victim)
			g.LastAction = &models.LastAction{Type: models.ActionPlayCombo, Seat: c.Initiator, Target: intPtr(c.Victim), Cards: c.Played, Note: "missed"}
			return
		}
		g.stealAt(c, idx)
	case 5:
		idx := g.discardIndexOf(c.NamedKind, c.Played)
		if idx < 0 {
			g.LastAction = &models.LastAction{Type: models.ActionPlayCombo, Seat: c.Initiator, Cards: c.Played, Note: "missed"}
			return
		}
		card := g.DiscardPile[idx]
		g.DiscardPile = append(g.DiscardPile[:idx:idx], g.DiscardPile[idx+1:]...)
		g.Seats[c.Initiator].Hand = append(g.Seats[c.Initiator].Hand, card)
		g.addPrivateLog(models.LogSteal, c.Initiator, nil, []models.Card{card}, c.Initiator)
		g.LastAction = &models.LastAction{Type: models.ActionPlayCombo, Seat: c.Initiator, Cards: c.Played, Note: "took from discard"}
	}
}

func (g *Game) stealAt(c *ComboRequest, idx int) {
	hand, card, _ := models.RemoveCardAt(g.Seats[c.Victim].Hand, idx)
	g.Seats[c.Victim].Hand = hand
	g.Seats[c.Initiator].Hand = append(g.Seats[c.Initiator].Hand, card)
	g.addPrivateLog(models.LogSteal, c.Initiator, intPtr(c.Victim), []models.Card{card}, c.Initiator, c.Victim)
	g.LastAction = &models.LastAction{Type: models.ActionPlayCombo, Seat: c.Initiator, Target: intPtr(c.Victim), Cards: c.Played, Note: "stole"}
}

// discardIndexOf finds the top-most discard of kind k that was not part of the combo itself.
func (g *Game) discardIndexOf(k models.CardKind, exclude []models.Card) int {
	skip := make(map[int]bool, len(exclude))
	for _, c := range exclude {
		skip[c.ID] = true
	}
	for i := len(g.DiscardPile) - 1; i >= 0; i-- {
		c := g.DiscardPile[i]
		if c.Kind == k && !skip[c.ID] {
			return i
		}
	}
	return -1
}
