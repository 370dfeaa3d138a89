// internal/game/interrupt.go
package game

import (
	"time"

	"github.com/jason-s-yu/cardhub/internal/models"
)

// Window is a pending interruptible action. At most one is live per room.
type Window struct {
	Action       models.Action
	Effect       *Effect
	Proposer     int
	Origin       int64 // timestamp of the discard entry that opened the window
	OpenedAt     time.Time
	TimerStart   time.Time
	CounterCount int
	Responses    map[int]models.CounterResponse
	Chain        []models.CounterMove

	timerSeq uint64
	closed   bool
}

// LastActor is the one seat that cannot counter: the latest counterer, or the proposer while the
// chain is empty.
func (w *Window) LastActor() int {
	if len(w.Chain) == 0 {
		return w.Proposer
	}
	return w.Chain[len(w.Chain)-1].Seat
}

// LastCounterer returns the seat of the latest counter, or -1.
func (w *Window) LastCounterer() int {
	if len(w.Chain) == 0 {
		return -1
	}
	return w.Chain[len(w.Chain)-1].Seat
}

// Applies reports whether the proposed effect fires with the current chain.
func (w *Window) Applies() bool {
	return w.CounterCount%2 == 0
}

// Deadline is when the window closes absent further counters.
func (w *Window) Deadline(d time.Duration) time.Time {
	return w.TimerStart.Add(d)
}

// Resolver runs the counter-window protocol for one room. It is not safe for concurrent use;
// the owning Game serializes every call under its Mu, including the expiry callback.
type Resolver struct {
	window   *Window
	duration time.Duration
	sched    Scheduler
	now      func() time.Time
	timer    Timer
	seq      uint64

	// onExpire runs on the scheduler's goroutine when the running timer elapses. The owner
	// re-acquires its lock and calls Expire(seq).
	onExpire func(seq uint64)
}

// NewResolver creates a resolver whose windows stay open for d after each (re)start.
func NewResolver(d time.Duration, sched Scheduler, now func() time.Time, onExpire func(seq uint64)) *Resolver {
	if sched == nil {
		sched = RealScheduler
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{duration: d, sched: sched, now: now, onExpire: onExpire}
}

// Pending returns the open window, or nil.
func (r *Resolver) Pending() *Window {
	return r.window
}

// Propose opens a window for action. A second window while one is open is a programming error.
func (r *Resolver) Propose(action models.Action, effect *Effect, proposer int, origin int64) (*Window, error) {
	if r.window != nil {
		return nil, ErrWindowOpen
	}
	now := r.now()
	w := &Window{
		Action:     action,
		Effect:     effect,
		Proposer:   proposer,
		Origin:     origin,
		OpenedAt:   now,
		TimerStart: now,
		Responses:  make(map[int]models.CounterResponse),
	}
	r.window = w
	r.restartTimer()
	return w, nil
}

// SubmitCounter records a counter by seat with card. The caller has already taken card out of
// the seat's hand. Each counter starts a fresh reaction round: responses are cleared and the
// timer restarts at the full duration.
func (r *Resolver) SubmitCounter(seat int, card models.Card) error {
	w := r.window
	if w == nil || w.closed {
		return ErrWindowClosed
	}
	if seat == w.LastActor() {
		return ErrNotWaiting
	}
	w.Chain = append(w.Chain, models.CounterMove{Seat: seat, Card: card})
	w.CounterCount++
	w.Responses = map[int]models.CounterResponse{seat: models.ResponseCounter}
	w.TimerStart = r.now()
	r.restartTimer()
	return nil
}

// CanCounter reports whether seat may counter right now, ignoring whether it holds the card.
func (r *Resolver) CanCounter(seat int) bool {
	w := r.window
	return w != nil && !w.closed && seat != w.LastActor()
}

// SubmitAllow records an ALLOW for seat. The latest answer in a round wins.
func (r *Resolver) SubmitAllow(seat int) error {
	w := r.window
	if w == nil || w.closed {
		return ErrWindowClosed
	}
	w.Responses[seat] = models.ResponseAllow
	return nil
}

// Settled reports whether every seat in active other than the proposer and the most recent
// counterer has answered ALLOW in the current round. When that leaves nobody to ask (two
// players, one counter) the proposer's answer is required instead, so it can still re-counter.
func (r *Resolver) Settled(active []int) bool {
	w := r.window
	if w == nil || w.closed {
		return false
	}
	last := w.LastCounterer()
	required := 0
	for _, seat := range active {
		if seat == w.Proposer || seat == last {
			continue
		}
		required++
		if w.Responses[seat] != models.ResponseAllow {
			return false
		}
	}
	if required == 0 && last >= 0 {
		for _, seat := range active {
			if seat != last && w.Responses[seat] != models.ResponseAllow {
				return false
			}
		}
	}
	return true
}

// Close ends the open window exactly once. ok is false when there is nothing to close.
func (r *Resolver) Close() (w *Window, ok bool) {
	w = r.window
	if w == nil || w.closed {
		return nil, false
	}
	w.closed = true
	r.window = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	return w, true
}

// Expire closes the window if seq still names the running timer. Stale firings, from a timer
// replaced by a later counter or from an already closed window, are dropped.
func (r *Resolver) Expire(seq uint64) (*Window, bool) {
	if r.window == nil || r.window.timerSeq != seq {
		return nil, false
	}
	return r.Close()
}

// Reset drops any open window without resolving it. Used when the game ends or restarts.
func (r *Resolver) Reset() {
	if r.window != nil {
		r.window.closed = true
		r.window = nil
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Resolver) restartTimer() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.seq++
	seq := r.seq
	r.window.timerSeq = seq
	r.timer = r.sched.AfterFunc(r.duration, func() {
		if r.onExpire != nil {
			r.onExpire(seq)
		}
	})
}
