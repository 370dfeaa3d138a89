// internal/game/rules.go
package game

import (
	"fmt"
	"time"

	"github.com/jason-s-yu/cardhub/internal/models"
)

// CounterWindow is how long an interrupt window stays open after it opens or after the latest
// counter. Clients render their countdown from the copy published in every snapshot, so this is
// the only place the duration is defined.
const CounterWindow = 30 * time.Second

// SeatCount is the number of seats in a bomb-game room.
const SeatCount = 5

// HouseRules defines per-room options, consulted when a game starts.
type HouseRules struct {
	AttackMultiple int        `json:"attackMultiple"` // turns added to the attack stack by an attack-class card
	ExtraTurns     int        `json:"extraTurns"`     // total turns owed to oneself by an extra-turns card
	HandSize       int        `json:"handSize"`       // cards dealt besides the guaranteed defuse
	Deck           DeckConfig `json:"deck"`
}

// DefaultHouseRules returns the standard rules with the base deck enabled.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		AttackMultiple: 2,
		ExtraTurns:     3,
		HandSize:       7,
		Deck:           DefaultDeckConfig(),
	}
}

// DeckConfig toggles card kinds in or out of the deck. Bomb and defuse are always in.
type DeckConfig map[models.CardKind]bool

var expansionKinds = map[models.CardKind]bool{
	models.KindReverse:        true,
	models.KindTargetedAttack: true,
	models.KindAlterFuture3:   true,
	models.KindAlterFuture5:   true,
	models.KindExtraTurns:     true,
	models.KindCatomicBomb:    true,
	models.KindDrawFromBottom: true,
	models.KindBury:           true,
}

// DefaultDeckConfig enables the base game and disables the expansion kinds.
func DefaultDeckConfig() DeckConfig {
	cfg := DeckConfig{}
	for _, k := range models.AllKinds {
		if k == models.KindBomb || k == models.KindDefuse {
			continue
		}
		cfg[k] = !expansionKinds[k]
	}
	return cfg
}

// Enabled reports whether kind k goes into the deck.
func (d DeckConfig) Enabled(k models.CardKind) bool {
	if k == models.KindBomb || k == models.KindDefuse {
		return true
	}
	return d[k]
}

// Clone copies the config so a running game is unaffected by later edits.
func (d DeckConfig) Clone() DeckConfig {
	out := make(DeckConfig, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Update applies the provided rules. Keys that are absent keep their current value.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64: // JSON numbers
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal || n > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.AttackMultiple, "attackMultiple", 1, 5); err != nil {
		return err
	}
	if err := assignInt(&rules.ExtraTurns, "extraTurns", 1, 5); err != nil {
		return err
	}
	if err := assignInt(&rules.HandSize, "handSize", 1, 7); err != nil {
		return err
	}

	if raw, exists := newRules["deck"]; exists && raw != nil {
		deck, ok := raw.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid type for deck")
		}
		if rules.Deck == nil {
			rules.Deck = DefaultDeckConfig()
		}
		if err := rules.Deck.Update(deck); err != nil {
			return err
		}
	}
	return nil
}

// Update toggles kinds from a JSON object of kind -> bool. Bomb and defuse cannot be toggled.
func (d DeckConfig) Update(toggles map[string]interface{}) error {
	for key, val := range toggles {
		k := models.CardKind(key)
		if !k.Valid() {
			return fmt.Errorf("unknown card kind %q", key)
		}
		if k == models.KindBomb || k == models.KindDefuse {
			return fmt.Errorf("card kind %q cannot be configured", key)
		}
		on, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for deck.%s", key)
		}
		d[k] = on
	}
	return nil
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	if current.Deck == nil {
		houseRules.Deck = DefaultDeckConfig()
	} else {
		houseRules.Deck = current.Deck.Clone()
	}
	err := houseRules.Update(rules)
	return houseRules, err
}
