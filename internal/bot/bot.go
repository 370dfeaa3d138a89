// Package bot decides moves for automated seats. Decide is pure: the same hand and view always
// give the same action, so the controller can schedule it freely.
package bot

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/models"
)

// Opponent is what a bot may know about another active seat.
type Opponent struct {
	Seat     int
	PlayerID uuid.UUID
	HandSize int
}

// WindowView describes the open counter window from a bot's seat.
type WindowView struct {
	Proposer      int
	Kind          models.CardKind // empty for combos
	Combo         bool
	Target        int // seat the action is aimed at, -1 if none
	AttackLandsOn int // seat an untargeted attack would hit, -1 otherwise
	LastCounterer int // -1 while the chain is empty
	CounterCount  int
}

// View is the public state a bot decides from, plus whatever its seat has privately seen.
type View struct {
	Seat           int
	PlayerID       uuid.UUID
	Phase          models.Phase
	CurrentSeat    int
	ExtraTurnsOwed int
	DrawPileSize   int
	Opponents      []Opponent
	Window         *WindowView
	Future         []models.Card // cards being reordered, top first
	DiscardKinds   map[models.CardKind]bool
}

// Decide returns the bot's move for the current phase, or nil when the seat has nothing to do.
func Decide(hand []models.Card, v View) models.Action {
	switch v.Phase {
	case models.PhaseNopeWindow:
		return decideCounter(hand, v)
	case models.PhaseDefusing:
		return models.Defuse{PlayerID: v.PlayerID}
	case models.PhaseInsertingKitten:
		// on top: the next player walks into it unless they hold a defuse
		return models.InsertKitten{PlayerID: v.PlayerID, Position: models.InsertTop}
	case models.PhaseBurying:
		return models.InsertKitten{PlayerID: v.PlayerID, Position: models.InsertMiddle}
	case models.PhaseFavorGiving:
		return models.GiveFavor{PlayerID: v.PlayerID, CardIndex: cheapestIndex(hand)}
	case models.PhaseAlterFuture:
		return models.ReorderFuture{PlayerID: v.PlayerID, Order: bombsLast(v.Future)}
	case models.PhasePlaying:
		if v.CurrentSeat != v.Seat {
			return nil
		}
		return decideTurn(hand, v)
	}
	return nil
}

// decideCounter counters when the pending action hurts this seat and would currently go
// through, or when this seat's own action is currently cancelled. Everything else is allowed.
func decideCounter(hand []models.Card, v View) models.Action {
	allow := models.RespondCounter{PlayerID: v.PlayerID, Response: models.ResponseAllow}
	w := v.Window
	if w == nil {
		return allow
	}
	idx := models.IndexOfKind(hand, models.KindCounter)
	if idx < 0 {
		return allow
	}
	lastActor := w.LastCounterer
	if lastActor < 0 {
		lastActor = w.Proposer
	}
	if lastActor == v.Seat {
		return allow
	}

	applies := w.CounterCount%2 == 0
	threatened := w.Target == v.Seat || w.AttackLandsOn == v.Seat
	mine := w.Proposer == v.Seat
	if (threatened && applies) || (mine && !applies) {
		return models.RespondCounter{PlayerID: v.PlayerID, Response: models.ResponseCounter, CardID: hand[idx].ID}
	}
	return allow
}

func decideTurn(hand []models.Card, v View) models.Action {
	// under attack: pass the stack on rather than sit through it
	if v.ExtraTurnsOwed > 1 {
		if i := models.IndexOfKind(hand, models.KindAttack); i >= 0 {
			return models.PlayCard{PlayerID: v.PlayerID, CardIndex: i}
		}
		if i := models.IndexOfKind(hand, models.KindSkip); i >= 0 {
			return models.PlayCard{PlayerID: v.PlayerID, CardIndex: i}
		}
	}

	victim, ok := richestOpponent(v.Opponents)
	if !hasDefuse(hand) && v.DiscardKinds[models.KindDefuse] {
		if idx := fiveDistinct(hand); idx != nil {
			return models.PlayCombo{PlayerID: v.PlayerID, CardIndices: idx, RequestedKind: models.KindDefuse}
		}
	}
	if ok {
		if idx := pairIndices(hand); idx != nil {
			return models.PlayCombo{PlayerID: v.PlayerID, CardIndices: idx, TargetPlayerID: victim.PlayerID}
		}
	}
	return models.DrawCard{PlayerID: v.PlayerID}
}

func hasDefuse(hand []models.Card) bool {
	return models.IndexOfKind(hand, models.KindDefuse) >= 0
}

// comboWorthy excludes cards a bot would rather keep for their own effect.
func comboWorthy(k models.CardKind) bool {
	return k != models.KindBomb && k != models.KindDefuse && k != models.KindCounter
}

// pairIndices finds two cards of one kind, suit cards first.
func pairIndices(hand []models.Card) []int {
	byKind := make(map[models.CardKind][]int)
	for i, c := range hand {
		if comboWorthy(c.Kind) {
			byKind[c.Kind] = append(byKind[c.Kind], i)
		}
	}
	var best []int
	for _, k := range models.AllKinds {
		idx := byKind[k]
		if len(idx) < 2 {
			continue
		}
		if k.IsSuit() {
			return idx[:2]
		}
		if best == nil {
			best = idx[:2]
		}
	}
	return best
}

// fiveDistinct picks five cards of different kinds, or nil.
func fiveDistinct(hand []models.Card) []int {
	seen := make(map[models.CardKind]bool)
	var idx []int
	for i, c := range hand {
		if !comboWorthy(c.Kind) || seen[c.Kind] {
			continue
		}
		seen[c.Kind] = true
		idx = append(idx, i)
		if len(idx) == 5 {
			return idx
		}
	}
	return nil
}

// richestOpponent is the opponent with the most cards, lowest seat on ties.
func richestOpponent(opps []Opponent) (Opponent, bool) {
	var best Opponent
	found := false
	for _, o := range opps {
		if o.HandSize == 0 {
			continue
		}
		if !found || o.HandSize > best.HandSize || (o.HandSize == best.HandSize && o.Seat < best.Seat) {
			best = o
			found = true
		}
	}
	return best, found
}

var keepValue = map[models.CardKind]int{
	models.KindDefuse:         100,
	models.KindCounter:        80,
	models.KindAttack:         60,
	models.KindTargetedAttack: 60,
	models.KindSkip:           50,
	models.KindCatomicBomb:    45,
	models.KindAlterFuture5:   40,
	models.KindAlterFuture3:   35,
	models.KindFavor:          30,
	models.KindReverse:        30,
	models.KindExtraTurns:     25,
	models.KindShuffle:        20,
	models.KindPeek3:          20,
	models.KindBury:           15,
	models.KindDrawFromBottom: 15,
}

// cheapestIndex is the card this seat minds losing least, first one on ties.
func cheapestIndex(hand []models.Card) int {
	best := 0
	for i, c := range hand {
		if keepValue[c.Kind] < keepValue[hand[best].Kind] {
			best = i
		}
	}
	return best
}

// bombsLast keeps the revealed order but sinks bombs below everything else.
func bombsLast(future []models.Card) []int {
	order := make([]int, len(future))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return future[order[a]].Kind != models.KindBomb && future[order[b]].Kind == models.KindBomb
	})
	return order
}
