// internal/game/interrupt_test.go
package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverSingleWindow(t *testing.T) {
	sched := newManualScheduler()
	var expired []uint64
	r := NewResolver(time.Second, sched, nil, func(seq uint64) { expired = append(expired, seq) })

	w, err := r.Propose(models.PlayCard{}, &Effect{Kind: models.KindSkip}, 0, 1)
	require.NoError(t, err)
	assert.Same(t, w, r.Pending())

	_, err = r.Propose(models.PlayCard{}, &Effect{Kind: models.KindSkip}, 1, 2)
	assert.ErrorIs(t, err, ErrWindowOpen)

	closed, ok := r.Close()
	require.True(t, ok)
	assert.Same(t, w, closed)
	assert.Nil(t, r.Pending())

	_, ok = r.Close()
	assert.False(t, ok, "close is idempotent")
	_, ok = r.Expire(w.timerSeq)
	assert.False(t, ok, "expiry after close is dropped")
	assert.ErrorIs(t, r.SubmitCounter(1, models.Card{Kind: models.KindCounter, ID: 1}), ErrWindowClosed)
	assert.ErrorIs(t, r.SubmitAllow(1), ErrWindowClosed)

	assert.Zero(t, sched.FireAll(), "closing stops the timer")
	assert.Empty(t, expired)
}

func TestResolverCounterRestartsTimer(t *testing.T) {
	sched := newManualScheduler()
	var expired []uint64
	r := NewResolver(time.Second, sched, nil, func(seq uint64) { expired = append(expired, seq) })

	w, err := r.Propose(models.PlayCard{}, &Effect{Kind: models.KindSkip}, 0, 1)
	require.NoError(t, err)
	first := w.timerSeq

	assert.ErrorIs(t, r.SubmitCounter(0, models.Card{Kind: models.KindCounter, ID: 1}), ErrNotWaiting, "proposer cannot counter an empty chain")
	require.NoError(t, r.SubmitCounter(1, models.Card{Kind: models.KindCounter, ID: 2}))
	assert.ErrorIs(t, r.SubmitCounter(1, models.Card{Kind: models.KindCounter, ID: 3}), ErrNotWaiting, "no countering yourself")
	assert.Equal(t, map[int]models.CounterResponse{1: models.ResponseCounter}, w.Responses)
	assert.NotEqual(t, first, w.timerSeq)

	_, ok := r.Expire(first)
	assert.False(t, ok, "the replaced timer is stale")
	assert.NotNil(t, r.Pending())

	require.Equal(t, 1, sched.FireAll(), "only the restarted timer is live")
	require.Equal(t, []uint64{w.timerSeq}, expired)
	closed, ok := r.Expire(expired[0])
	require.True(t, ok)
	assert.Equal(t, 1, closed.CounterCount)
	assert.False(t, closed.Applies())
}

func TestResolverSettled(t *testing.T) {
	counter := models.Card{Kind: models.KindCounter, ID: 9}

	t.Run("everyone but the proposer must allow", func(t *testing.T) {
		r := NewResolver(time.Second, newManualScheduler(), nil, nil)
		_, err := r.Propose(models.PlayCard{}, &Effect{}, 0, 1)
		require.NoError(t, err)
		active := []int{0, 1, 2}

		require.NoError(t, r.SubmitAllow(0))
		assert.False(t, r.Settled(active))
		require.NoError(t, r.SubmitAllow(1))
		assert.False(t, r.Settled(active))
		require.NoError(t, r.SubmitAllow(2))
		assert.True(t, r.Settled(active))
	})

	t.Run("the latest counterer is exempt", func(t *testing.T) {
		r := NewResolver(time.Second, newManualScheduler(), nil, nil)
		_, err := r.Propose(models.PlayCard{}, &Effect{}, 0, 1)
		require.NoError(t, err)
		active := []int{0, 1, 2}

		require.NoError(t, r.SubmitAllow(2))
		require.NoError(t, r.SubmitCounter(1, counter))
		assert.False(t, r.Settled(active), "a counter starts a fresh round")
		require.NoError(t, r.SubmitAllow(2))
		assert.True(t, r.Settled(active))
	})

	t.Run("two players fall back to the proposer", func(t *testing.T) {
		r := NewResolver(time.Second, newManualScheduler(), nil, nil)
		_, err := r.Propose(models.PlayCard{}, &Effect{}, 0, 1)
		require.NoError(t, err)
		active := []int{0, 1}

		require.NoError(t, r.SubmitCounter(1, counter))
		assert.False(t, r.Settled(active))
		require.NoError(t, r.SubmitAllow(0))
		assert.True(t, r.Settled(active))
	})
}

// counterTable deals seat 0 a skip and gives seats 1 and 2 counters. Any skip that resolves moves
// the turn to seat 1; a cancelled one leaves it with seat 0.
func counterTable(t *testing.T) (*Game, []seatPlayer, *mockBroadcaster, *manualScheduler) {
	t.Helper()
	g, players, mb, sched := setupTestGame(t, 3,
		[][]models.CardKind{
			{models.KindSkip, models.KindTaco},
			{models.KindCounter, models.KindCounter},
			{models.KindCounter},
		},
		repeat(models.KindBeard, 4),
	)
	ids := make([]seatPlayer, len(players))
	for i, p := range players {
		ids[i] = seatPlayer{seat: i, id: p}
	}
	require.NoError(t, g.Handle(models.PlayCard{PlayerID: players[0], CardIndex: 0}))
	require.Equal(t, models.PhaseNopeWindow, g.Phase)
	require.NotNil(t, mb.last().Window)
	return g, ids, mb, sched
}

func counterBy(p seatPlayer) models.Action {
	return models.RespondCounter{PlayerID: p.id, Response: models.ResponseCounter}
}

func allowBy(p seatPlayer) models.Action {
	return models.RespondCounter{PlayerID: p.id, Response: models.ResponseAllow}
}

// TestCounterChainParity: an even number of counters lets the skip through, an odd number cancels it.
func TestCounterChainParity(t *testing.T) {
	cases := []struct {
		name    string
		moves   func(p []seatPlayer) []models.Action
		applies bool
	}{
		{"no counters", func(p []seatPlayer) []models.Action {
			return []models.Action{allowBy(p[1]), allowBy(p[2])}
		}, true},
		{"one counter", func(p []seatPlayer) []models.Action {
			return []models.Action{counterBy(p[1]), allowBy(p[2])}
		}, false},
		{"counter and re-counter", func(p []seatPlayer) []models.Action {
			return []models.Action{counterBy(p[1]), counterBy(p[2]), allowBy(p[1])}
		}, true},
		{"three counters", func(p []seatPlayer) []models.Action {
			return []models.Action{counterBy(p[1]), counterBy(p[2]), counterBy(p[1]), allowBy(p[2])}
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, p, mb, _ := counterTable(t)
			moves := tc.moves(p)
			for i, m := range moves {
				require.NoError(t, g.Handle(m))
				if i < len(moves)-1 {
					require.Equal(t, models.PhaseNopeWindow, g.Phase, "window closed early after move %d", i)
				}
			}

			assert.Equal(t, models.PhasePlaying, g.Phase)
			assert.Nil(t, g.resolver.Pending())
			assert.Nil(t, mb.last().Window)

			entry := entryWith(t, g, models.KindSkip)
			assert.True(t, entry.Sealed)
			assert.Equal(t, !tc.applies, entry.WasCancelled)

			counters := 0
			for _, m := range moves {
				if m.(models.RespondCounter).Response == models.ResponseCounter {
					counters++
				}
			}
			assert.Len(t, entry.CounterChain, counters)
			assert.Equal(t, counters, models.CountKind(g.DiscardPile, models.KindCounter))

			if tc.applies {
				assert.Equal(t, 1, g.Turn.Current)
			} else {
				assert.Equal(t, 0, g.Turn.Current)
				assert.True(t, g.LastAction.Cancelled)
			}
		})
	}
}

func TestCounterWindowTimeoutIsConsent(t *testing.T) {
	g, _, mb, sched := counterTable(t)
	before := mb.count()

	require.Equal(t, 1, sched.FireWindows())
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, 1, g.Turn.Current)
	assert.False(t, entryWith(t, g, models.KindSkip).WasCancelled)
	assert.Equal(t, before+1, mb.count(), "expiry commits and broadcasts")
}

func TestCounterWindowTimeoutAfterCounter(t *testing.T) {
	g, p, _, sched := counterTable(t)
	stale := sched.live()
	require.Len(t, stale, 1)

	require.NoError(t, g.Handle(counterBy(p[1])))

	// a firing from the replaced timer races in; it must be ignored
	stale[0].f()
	assert.Equal(t, models.PhaseNopeWindow, g.Phase)

	require.Equal(t, 1, sched.FireWindows())
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, 0, g.Turn.Current)
	assert.True(t, entryWith(t, g, models.KindSkip).WasCancelled)
}

func TestCounterRejections(t *testing.T) {
	g, p, mb, _ := counterTable(t)
	before := mb.count()

	assert.ErrorIs(t, g.Handle(counterBy(p[0])), ErrNotWaiting, "the proposer waits on an empty chain")
	assert.ErrorIs(t, g.Handle(models.DrawCard{PlayerID: p[0].id}), ErrWrongPhase)
	assert.ErrorIs(t, g.Handle(models.PlayCard{PlayerID: p[0].id, CardIndex: 0}), ErrWrongPhase)

	require.NoError(t, g.Handle(counterBy(p[1])))
	assert.ErrorIs(t, g.Handle(counterBy(p[1])), ErrNotWaiting)
	assert.ErrorIs(t, g.Handle(counterBy(p[0])), ErrNoCounterCard)
	assert.ErrorIs(t, g.Handle(models.RespondCounter{PlayerID: p[2].id, Response: models.ResponseCounter, CardID: 424242}), ErrNoCounterCard)

	require.NoError(t, g.Handle(allowBy(p[2])))
	assert.Equal(t, models.PhasePlaying, g.Phase)

	// late answers after the close are ignored
	assert.ErrorIs(t, g.Handle(counterBy(p[2])), ErrWindowClosed)
	assert.Equal(t, before+2, mb.count())
}

func TestTwoPlayerReCounter(t *testing.T) {
	setup := func(t *testing.T) (*Game, []seatPlayer) {
		g, players, _, _ := setupTestGame(t, 2,
			[][]models.CardKind{{models.KindSkip, models.KindCounter}, {models.KindCounter}},
			repeat(models.KindBeard, 2),
		)
		require.NoError(t, g.Handle(models.PlayCard{PlayerID: players[0], CardIndex: 0}))
		require.Equal(t, models.PhaseNopeWindow, g.Phase)
		return g, []seatPlayer{{seat: 0, id: players[0]}, {seat: 1, id: players[1]}}
	}

	t.Run("proposer re-counters", func(t *testing.T) {
		g, p := setup(t)
		require.NoError(t, g.Handle(counterBy(p[1])))
		assert.Equal(t, models.PhaseNopeWindow, g.Phase, "the proposer still gets to answer")
		require.NoError(t, g.Handle(counterBy(p[0])))
		require.NoError(t, g.Handle(allowBy(p[1])))
		assert.Equal(t, models.PhasePlaying, g.Phase)
		assert.Equal(t, 1, g.Turn.Current)
	})

	t.Run("proposer accepts the counter", func(t *testing.T) {
		g, p := setup(t)
		require.NoError(t, g.Handle(counterBy(p[1])))
		require.NoError(t, g.Handle(allowBy(p[0])))
		assert.Equal(t, models.PhasePlaying, g.Phase)
		assert.Equal(t, 0, g.Turn.Current)
		assert.True(t, entryWith(t, g, models.KindSkip).WasCancelled)
	})
}

func TestEliminationClosesSettledWindow(t *testing.T) {
	g, p, _, _ := counterTable(t)

	require.NoError(t, g.Handle(allowBy(p[1])))
	require.Equal(t, models.PhaseNopeWindow, g.Phase)

	// seat 2 was the only one left to answer
	require.NoError(t, g.Handle(models.RemovePlayer{PlayerID: p[2].id}))
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, 1, g.Turn.Current)
}

// TestProposerForfeitsDuringWindow: the window outlives its proposer and still resolves by parity.
// An effect that would apply is dropped since its owner is gone.
func TestProposerForfeitsDuringWindow(t *testing.T) {
	t.Run("countered", func(t *testing.T) {
		g, p, _, _ := counterTable(t)

		require.NoError(t, g.Handle(models.RemovePlayer{PlayerID: p[0].id}))
		require.Equal(t, models.PhaseNopeWindow, g.Phase, "seats 1 and 2 still owe an answer")
		require.Equal(t, 1, g.Turn.Current)

		require.NoError(t, g.Handle(counterBy(p[1])))
		require.NoError(t, g.Handle(allowBy(p[2])))

		assert.Equal(t, models.PhasePlaying, g.Phase)
		assert.Nil(t, g.resolver.Pending())
		assert.Equal(t, 1, g.Turn.Current)
		entry := entryWith(t, g, models.KindSkip)
		assert.True(t, entry.Sealed)
		assert.True(t, entry.WasCancelled)
		assert.True(t, g.LastAction.Cancelled)
	})

	t.Run("times out", func(t *testing.T) {
		g, p, _, sched := counterTable(t)

		require.NoError(t, g.Handle(models.RemovePlayer{PlayerID: p[0].id}))
		require.Equal(t, 1, sched.FireWindows())

		assert.Equal(t, models.PhasePlaying, g.Phase)
		assert.Equal(t, 1, g.Turn.Current, "the skip is not applied on behalf of a departed seat")
		entry := entryWith(t, g, models.KindSkip)
		assert.True(t, entry.Sealed)
		assert.False(t, entry.WasCancelled)
		assert.Equal(t, "proposer left", g.LastAction.Note)
	})
}

func TestNoWindowWhenOnlyActorHoldsCounters(t *testing.T) {
	g, players, _, sched := setupTestGame(t, 2,
		[][]models.CardKind{{models.KindSkip, models.KindCounter}, {models.KindTaco}},
		repeat(models.KindBeard, 2),
	)
	require.NoError(t, g.Handle(models.PlayCard{PlayerID: players[0], CardIndex: 0}))
	assert.Equal(t, models.PhasePlaying, g.Phase)
	assert.Equal(t, 1, g.Turn.Current)
	assert.Empty(t, sched.live())
}

type seatPlayer struct {
	seat int
	id   uuid.UUID
}
