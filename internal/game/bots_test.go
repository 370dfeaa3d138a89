// internal/game/bots_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBotGame seats a human host at seat 0 and bots after it, then starts. When hands is not nil
// every hand and the draw pile are replaced as in setupTestGame.
func setupBotGame(t *testing.T, bots int, hands [][]models.CardKind, pile []models.CardKind) (*Game, uuid.UUID, *mockBroadcaster, *manualScheduler) {
	t.Helper()
	g, sched, mb := newTestGame()
	host := uuid.New()
	require.NoError(t, g.Handle(models.JoinSlot{PlayerID: host, Seat: 0}))
	for i := 0; i < bots; i++ {
		require.NoError(t, g.Handle(models.AddBot{PlayerID: host, Seat: -1}))
	}
	require.NoError(t, g.Handle(models.StartGame{PlayerID: host}))

	if hands != nil {
		g.Mu.Lock()
		for i := 0; i <= bots; i++ {
			var kinds []models.CardKind
			if i < len(hands) {
				kinds = hands[i]
			}
			g.Seats[i].Hand = mk(kinds...)
		}
		g.DrawPile = mk(pile...)
		g.DiscardPile = nil
		g.Mu.Unlock()
	}
	mb.clear()
	return g, host, mb, sched
}

func TestBotTakesItsTurnAfterBroadcast(t *testing.T) {
	g, host, mb, sched := setupBotGame(t, 1,
		[][]models.CardKind{{models.KindSkip}, {models.KindTaco}},
		repeat(models.KindBeard, 3),
	)

	require.NoError(t, g.Handle(models.PlayCard{PlayerID: host, CardIndex: 0}))
	assert.Equal(t, 1, g.Turn.Current)
	assert.Equal(t, 1, mb.count(), "the skip is published before the bot moves")
	assert.Len(t, g.Seats[1].Hand, 1)

	require.Equal(t, 1, sched.FireBots())
	assert.Equal(t, 0, g.Turn.Current)
	assert.Len(t, g.Seats[1].Hand, 2, "a bot without a combo draws")
	assert.Equal(t, 2, mb.count())
}

func TestBotCountersTheftAimedAtIt(t *testing.T) {
	g, host, mb, sched := setupBotGame(t, 1,
		[][]models.CardKind{{models.KindFavor}, {models.KindCounter, models.KindDefuse}},
		repeat(models.KindBeard, 3),
	)

	require.NoError(t, g.Handle(models.PlayCard{PlayerID: host, CardIndex: 0, TargetPlayerID: g.Seats[1].PlayerID}))
	require.Equal(t, models.PhaseNopeWindow, g.Phase)
	require.Empty(t, mb.last().Window.Chain, "the bot has not reacted before the broadcast")

	// an answer from the host moves the room on; the decision scheduled earlier is stale
	stale := sched.live()
	require.NoError(t, g.Handle(models.RespondCounter{PlayerID: host, Response: models.ResponseAllow}))
	for _, tm := range stale {
		if tm.d != CounterWindow {
			tm.f()
		}
	}
	assert.Empty(t, g.resolver.Pending().Chain)

	require.Equal(t, 1, sched.FireBots())
	w := g.resolver.Pending()
	require.NotNil(t, w)
	require.Len(t, w.Chain, 1)
	assert.Equal(t, 1, w.Chain[0].Seat)

	require.NoError(t, g.Handle(models.RespondCounter{PlayerID: host, Response: models.ResponseAllow}))
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, []models.CardKind{models.KindDefuse}, kindsOf(g.Seats[1].Hand), "the favor was cancelled")
}

func TestBotGivesFavor(t *testing.T) {
	g, host, _, sched := setupBotGame(t, 1,
		[][]models.CardKind{{models.KindFavor}, {models.KindDefuse, models.KindTaco}},
		repeat(models.KindBeard, 3),
	)

	require.NoError(t, g.Handle(models.PlayCard{PlayerID: host, CardIndex: 0, TargetPlayerID: g.Seats[1].PlayerID}))
	require.Equal(t, models.PhaseFavorGiving, g.Phase)

	require.Equal(t, 1, sched.FireBots())
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, []models.CardKind{models.KindTaco}, kindsOf(g.Seats[0].Hand), "the bot keeps its defuse")
}

func TestBotDefusesAndBuriesTheBomb(t *testing.T) {
	g, host, _, sched := setupBotGame(t, 1,
		[][]models.CardKind{{models.KindSkip, models.KindDefuse}, {models.KindDefuse}},
		[]models.CardKind{models.KindTaco, models.KindMelon, models.KindBomb},
	)

	require.NoError(t, g.Handle(models.PlayCard{PlayerID: host, CardIndex: 0}))
	require.Equal(t, 1, sched.FireBots())
	require.Equal(t, models.PhaseDefusing, g.Phase)
	require.Equal(t, 1, sched.FireBots())
	require.Equal(t, models.PhaseInsertingKitten, g.Phase)
	require.Equal(t, 1, sched.FireBots())

	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, 0, g.Turn.Current)
	assert.False(t, g.Seats[1].Eliminated)
	assert.Equal(t, models.KindBomb, g.topCards(1)[0].Kind)
}

// TestBotsPlayToCompletion leaves two bots alone in a room and runs every scheduled task until
// the game ends. Every card must still be accounted for.
func TestBotsPlayToCompletion(t *testing.T) {
	g, host, _, sched := setupBotGame(t, 2, nil, nil)
	require.NoError(t, g.Handle(models.RemovePlayer{PlayerID: host}))
	require.Equal(t, 1, g.Turn.Current)

	for i := 0; i < 20000 && g.Phase != models.PhaseEnded; i++ {
		require.NotZero(t, sched.FireAll(), "room stalled in %s", g.Phase)
	}
	require.Equal(t, models.PhaseEnded, g.Phase)
	require.NotNil(t, g.Winner)
	assert.Contains(t, []int{1, 2}, *g.Winner)

	var ids IDSource
	seen := make(map[int]bool)
	count := func(cs []models.Card) {
		for _, c := range cs {
			require.False(t, seen[c.ID], "card %s appears twice", c)
			seen[c.ID] = true
		}
	}
	count(g.DrawPile)
	count(g.DiscardPile)
	for _, s := range g.Seats {
		count(s.Hand)
	}
	assert.Len(t, seen, len(BuildDeck(DefaultDeckConfig(), 3, &ids)))
}
