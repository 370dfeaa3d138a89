// internal/models/card.go
package models

import "fmt"

// CardKind identifies what a card does. The set is closed; unknown kinds never enter a deck.
type CardKind string

// Base game kinds.
const (
	KindBomb    CardKind = "bomb"
	KindDefuse  CardKind = "defuse"
	KindAttack  CardKind = "attack"
	KindSkip    CardKind = "skip"
	KindFavor   CardKind = "favor"
	KindShuffle CardKind = "shuffle"
	KindPeek3   CardKind = "peek_3"
	KindCounter CardKind = "counter"

	// Suit cards have no effect of their own and are only playable in combos.
	KindTaco    CardKind = "taco"
	KindMelon   CardKind = "melon"
	KindBeard   CardKind = "beard"
	KindRainbow CardKind = "rainbow"
	KindPotato  CardKind = "potato"
)

// Expansion kinds.
const (
	KindReverse        CardKind = "reverse"
	KindTargetedAttack CardKind = "targeted_attack"
	KindAlterFuture3   CardKind = "alter_future_3"
	KindAlterFuture5   CardKind = "alter_future_5"
	KindExtraTurns     CardKind = "extra_turns"
	KindCatomicBomb    CardKind = "catomic_bomb"
	KindDrawFromBottom CardKind = "draw_from_bottom"
	KindBury           CardKind = "bury"
)

// AllKinds lists every kind in a stable order. Deck building iterates this list so the
// composition of a deck never depends on map iteration order.
var AllKinds = []CardKind{
	KindBomb, KindDefuse, KindAttack, KindSkip, KindFavor, KindShuffle, KindPeek3, KindCounter,
	KindTaco, KindMelon, KindBeard, KindRainbow, KindPotato,
	KindReverse, KindTargetedAttack, KindAlterFuture3, KindAlterFuture5, KindExtraTurns,
	KindCatomicBomb, KindDrawFromBottom, KindBury,
}

var suitKinds = map[CardKind]bool{
	KindTaco: true, KindMelon: true, KindBeard: true, KindRainbow: true, KindPotato: true,
}

// Valid reports whether k is one of the known kinds.
func (k CardKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsSuit reports whether k is a combo-only suit card.
func (k CardKind) IsSuit() bool {
	return suitKinds[k]
}

// IsAttack reports whether k adds to the attack stack when it resolves.
func (k CardKind) IsAttack() bool {
	return k == KindAttack || k == KindTargetedAttack
}

// NeedsTarget reports whether playing k as a single card requires a target seat.
func (k CardKind) NeedsTarget() bool {
	return k == KindFavor || k == KindTargetedAttack
}

// Card is an immutable (kind, identity) pair. ID is unique within a room's lifetime.
type Card struct {
	Kind CardKind `json:"kind"`
	ID   int      `json:"id"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}

// RemoveCardAt returns the hand without the card at idx along with the removed card.
// ok is false when idx is out of range, in which case the hand is returned untouched.
func RemoveCardAt(hand []Card, idx int) ([]Card, Card, bool) {
	if idx < 0 || idx >= len(hand) {
		return hand, Card{}, false
	}
	c := hand[idx]
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	out = append(out, hand[idx+1:]...)
	return out, c, true
}

// IndexOfKind returns the index of the first card of kind k in hand, or -1.
func IndexOfKind(hand []Card, k CardKind) int {
	for i, c := range hand {
		if c.Kind == k {
			return i
		}
	}
	return -1
}

// IndexOfID returns the index of the card with the given identity in hand, or -1.
func IndexOfID(hand []Card, id int) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// CountKind counts cards of kind k in hand.
func CountKind(hand []Card, k CardKind) int {
	n := 0
	for _, c := range hand {
		if c.Kind == k {
			n++
		}
	}
	return n
}
