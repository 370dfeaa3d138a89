// internal/game/combo_test.go
package game

import (
	"testing"

	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCombo(t *testing.T) {
	hand := mk(models.KindTaco, models.KindTaco, models.KindTaco, models.KindMelon, models.KindBomb,
		models.KindAttack, models.KindSkip, models.KindFavor)

	cases := []struct {
		name    string
		indices []int
		named   models.CardKind
		err     error
	}{
		{"pair", []int{0, 1}, "", nil},
		{"mixed pair", []int{0, 3}, "", ErrBadCombo},
		{"four cards", []int{0, 1, 2, 3}, "", ErrBadCombo},
		{"single card", []int{0}, "", ErrBadCombo},
		{"repeated index", []int{0, 0}, "", ErrBadCombo},
		{"out of range", []int{0, 40}, "", ErrBadCardIndex},
		{"triple", []int{0, 1, 2}, models.KindDefuse, nil},
		{"triple without name", []int{0, 1, 2}, "", ErrBadCombo},
		{"triple naming a bomb", []int{0, 1, 2}, models.KindBomb, ErrBadCombo},
		{"triple naming nonsense", []int{0, 1, 2}, "joker", ErrBadCombo},
		{"five distinct", []int{0, 3, 5, 6, 7}, models.KindDefuse, nil},
		{"five with a repeat", []int{0, 1, 5, 6, 7}, models.KindDefuse, ErrBadCombo},
		{"five with a bomb", []int{0, 3, 4, 5, 6}, models.KindDefuse, ErrBadCombo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := checkCombo(hand, tc.indices, tc.named)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cards, len(tc.indices))
		})
	}
}

// TestPairStealIsUniform plays the same pair many times against a four-card hand and checks that
// every victim card is taken about equally often.
func TestPairStealIsUniform(t *testing.T) {
	g, players, _, _ := setupTestGame(t, 2, nil, repeat(models.KindBeard, 2))
	victim := mk(models.KindAttack, models.KindSkip, models.KindFavor, models.KindShuffle)

	const trials = 4000
	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		g.Seats[0].Hand = mk(models.KindTaco, models.KindTaco)
		g.Seats[1].Hand = append([]models.Card(nil), victim...)

		require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1}, TargetPlayerID: players[1]}))
		require.Len(t, g.Seats[0].Hand, 1)
		require.Len(t, g.Seats[1].Hand, 3)
		counts[g.Seats[0].Hand[0].ID]++
	}

	require.Len(t, counts, len(victim))
	expected := trials / len(victim)
	for _, c := range victim {
		assert.InDelta(t, expected, counts[c.ID], 150, "card %s stolen %d times", c, counts[c.ID])
	}
	assert.Equal(t, 0, g.Turn.Current, "a combo does not end the turn")
}

func TestTripleSteal(t *testing.T) {
	t.Run("named kind present", func(t *testing.T) {
		g, players, _, _ := setupTestGame(t, 2,
			[][]models.CardKind{repeat(models.KindMelon, 3), {models.KindTaco, models.KindDefuse}},
			repeat(models.KindBeard, 2),
		)
		require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1, 2}, TargetPlayerID: players[1], RequestedKind: models.KindDefuse}))
		assert.Equal(t, []models.CardKind{models.KindDefuse}, kindsOf(g.Seats[0].Hand))
		assert.Equal(t, []models.CardKind{models.KindTaco}, kindsOf(g.Seats[1].Hand))
		assert.Equal(t, "stole", g.LastAction.Note)
	})

	t.Run("named kind missing", func(t *testing.T) {
		g, players, _, _ := setupTestGame(t, 2,
			[][]models.CardKind{append(repeat(models.KindMelon, 3), models.KindSkip), {models.KindTaco, models.KindBeard}},
			repeat(models.KindBeard, 2),
		)
		require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1, 2}, TargetPlayerID: players[1], RequestedKind: models.KindDefuse}))
		assert.Equal(t, []models.CardKind{models.KindSkip}, kindsOf(g.Seats[0].Hand), "the combo is consumed")
		assert.Len(t, g.Seats[1].Hand, 2)
		assert.Equal(t, repeat(models.KindMelon, 3), kindsOf(g.DiscardPile))
		assert.Equal(t, "missed", g.LastAction.Note)

		log := g.PrivateLogs[len(g.PrivateLogs)-1]
		assert.Equal(t, models.LogSteal, log.Kind)
		assert.Empty(t, log.Cards)
	})
}

func TestFiveCardComboTakesFromDiscard(t *testing.T) {
	five := []models.CardKind{models.KindAttack, models.KindSkip, models.KindFavor, models.KindShuffle, models.KindTaco}

	t.Run("takes the top-most match", func(t *testing.T) {
		g, players, _, _ := setupTestGame(t, 2, [][]models.CardKind{five}, repeat(models.KindBeard, 2))
		g.DiscardPile = mk(models.KindDefuse, models.KindMelon, models.KindDefuse)
		wanted := g.DiscardPile[2]

		require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1, 2, 3, 4}, RequestedKind: models.KindDefuse}))
		require.Len(t, g.Seats[0].Hand, 1)
		assert.Equal(t, wanted, g.Seats[0].Hand[0])
		assert.Equal(t, 2+len(five), len(g.DiscardPile))
		assert.Equal(t, models.CountKind(g.DiscardPile, models.KindDefuse), 1)
	})

	t.Run("the combo's own cards do not count", func(t *testing.T) {
		g, players, _, _ := setupTestGame(t, 2, [][]models.CardKind{five}, repeat(models.KindBeard, 2))

		require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1, 2, 3, 4}, RequestedKind: models.KindAttack}))
		assert.Empty(t, g.Seats[0].Hand)
		assert.Len(t, g.DiscardPile, len(five))
		assert.Equal(t, "missed", g.LastAction.Note)
	})
}

func TestCounteredComboStealsNothing(t *testing.T) {
	g, players, _, _ := setupTestGame(t, 2,
		[][]models.CardKind{{models.KindTaco, models.KindTaco}, {models.KindCounter, models.KindDefuse}},
		repeat(models.KindBeard, 2),
	)
	require.NoError(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1}, TargetPlayerID: players[1]}))
	require.Equal(t, models.PhaseNopeWindow, g.Phase)

	require.NoError(t, g.Handle(models.RespondCounter{PlayerID: players[1], Response: models.ResponseCounter}))
	require.NoError(t, g.Handle(models.RespondCounter{PlayerID: players[0], Response: models.ResponseAllow}))

	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Empty(t, g.Seats[0].Hand)
	assert.Equal(t, []models.CardKind{models.KindDefuse}, kindsOf(g.Seats[1].Hand))
}

func TestBadComboLeavesHandAlone(t *testing.T) {
	g, players, mb, _ := setupTestGame(t, 2,
		[][]models.CardKind{{models.KindTaco, models.KindMelon}, {models.KindBeard}},
		repeat(models.KindBeard, 2),
	)
	before := append([]models.Card(nil), g.Seats[0].Hand...)

	assert.ErrorIs(t, g.Handle(models.PlayCombo{PlayerID: players[0], CardIndices: []int{0, 1}, TargetPlayerID: players[1]}), ErrBadCombo)
	assert.Equal(t, before, g.Seats[0].Hand)
	assert.Empty(t, g.DiscardPile)
	assert.Equal(t, 0, mb.count())
}
