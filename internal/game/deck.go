// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/cardhub/internal/models"
)

// IDSource hands out card identities. One source lives for the whole room, so identities are
// never reused while the room exists, even across games.
type IDSource struct {
	next int
}

// Next returns a fresh identity. Identities start at 1 so zero can mean "unspecified".
func (s *IDSource) Next() int {
	s.next++
	return s.next
}

// kindCount sizes every non-bomb, non-defuse kind for a given number of seats.
func kindCount(k models.CardKind, seats int) int {
	switch k {
	case models.KindAttack, models.KindSkip, models.KindFavor, models.KindShuffle:
		return 4
	case models.KindPeek3, models.KindCounter:
		return seats
	case models.KindTaco, models.KindMelon, models.KindBeard, models.KindRainbow, models.KindPotato:
		return 4
	case models.KindReverse, models.KindDrawFromBottom:
		return 4
	case models.KindTargetedAttack, models.KindExtraTurns, models.KindAlterFuture3:
		return 3
	case models.KindAlterFuture5, models.KindCatomicBomb:
		return 1
	case models.KindBury:
		return 2
	}
	return 0
}

// BuildDeck returns the full, unshuffled composition for a game with seatCount players:
// seatCount-1 bombs, seatCount defuses and every enabled kind sized by kindCount.
func BuildDeck(cfg DeckConfig, seatCount int, ids *IDSource) []models.Card {
	var deck []models.Card
	add := func(k models.CardKind, n int) {
		for i := 0; i < n; i++ {
			deck = append(deck, models.Card{Kind: k, ID: ids.Next()})
		}
	}

	for _, k := range models.AllKinds {
		switch {
		case k == models.KindBomb:
			add(k, seatCount-1)
		case k == models.KindDefuse:
			add(k, seatCount)
		case cfg.Enabled(k):
			add(k, kindCount(k, seatCount))
		}
	}
	return deck
}

// Shuffle returns a uniformly permuted copy of cards (Fisher-Yates via rand.Shuffle).
func Shuffle(cards []models.Card, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// deal splits a built deck into one hand per seat and the draw pile. Every hand gets one defuse
// plus handSize other cards; bombs and spare defuses are shuffled back into the pile afterwards.
func deal(deck []models.Card, seats []int, handSize int, rng *rand.Rand) (map[int][]models.Card, []models.Card) {
	var bombs, defuses, rest []models.Card
	for _, c := range deck {
		switch c.Kind {
		case models.KindBomb:
			bombs = append(bombs, c)
		case models.KindDefuse:
			defuses = append(defuses, c)
		default:
			rest = append(rest, c)
		}
	}
	rest = Shuffle(rest, rng)

	hands := make(map[int][]models.Card, len(seats))
	for _, s := range seats {
		hand := make([]models.Card, 0, handSize+1)
		if len(defuses) > 0 {
			hand = append(hand, defuses[0])
			defuses = defuses[1:]
		}
		for i := 0; i < handSize && len(rest) > 0; i++ {
			hand = append(hand, rest[len(rest)-1])
			rest = rest[:len(rest)-1]
		}
		hands[s] = hand
	}

	pile := append(rest, defuses...)
	pile = append(pile, bombs...)
	return hands, Shuffle(pile, rng)
}
