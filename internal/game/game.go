// internal/game/game.go
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/cache"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultBotThinkDelay is how long a bot waits after the broadcast before acting.
const DefaultBotThinkDelay = 1200 * time.Millisecond

// OnGameEndFunc is invoked once when a game reaches ENDED.
type OnGameEndFunc func(roomID uuid.UUID, winner uuid.UUID)

// Game is one room of the bomb game: seats, piles, turn state and the pending counter window.
// Every exported method takes Mu; unexported methods assume it is held.
type Game struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Mu        sync.Mutex
	Rules     HouseRules

	Phase       models.Phase
	Seats       [SeatCount]models.Seat
	DrawPile    []models.Card
	DiscardPile []models.Card
	Turn        TurnLedger
	History     []models.DiscardEntry
	PrivateLogs []models.PrivateLog
	LastAction  *models.LastAction
	Winner      *int

	held        *models.Card // defused bomb or buried card waiting to go back into the pile
	favor       *favorState
	futureCount int
	votes       map[int]bool

	resolver    *Resolver
	ids         IDSource
	rng         *rand.Rand
	sched       Scheduler
	now         func() time.Time
	lastStamp   int64
	version     uint64
	actionIndex int
	botTimers   []Timer

	// BotThinkDelay separates a broadcast from the bot move it triggers.
	BotThinkDelay time.Duration

	// BroadcastFn receives every committed state. It runs with Mu held and must not block.
	BroadcastFn func(snap Snapshot)

	// OnGameEnd is invoked when a winner is decided.
	OnGameEnd OnGameEndFunc

	log *logrus.Entry
}

// Option customises a Game at construction.
type Option func(*Game)

// WithScheduler replaces the wall-clock scheduler used for counter windows and bot moves.
func WithScheduler(s Scheduler) Option {
	return func(g *Game) { g.sched = s }
}

// WithRand seeds shuffles, random steals and random insertion.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithLogger routes the room's logs through l.
func WithLogger(l *logrus.Logger) Option {
	return func(g *Game) { g.log = l.WithField("room", g.ID) }
}

// WithRules sets the house rules used at the next START_GAME.
func WithRules(r HouseRules) Option {
	return func(g *Game) { g.Rules = r }
}

// NewGame builds an empty room in WAITING with five empty seats.
func NewGame(opts ...Option) *Game {
	id, _ := uuid.NewV7()
	g := &Game{
		ID:            id,
		Rules:         DefaultHouseRules(),
		Phase:         models.PhaseWaiting,
		sched:         RealScheduler,
		now:           time.Now,
		BotThinkDelay: DefaultBotThinkDelay,
		votes:         make(map[int]bool),
	}
	g.log = logrus.WithField("room", g.ID)
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := range g.Seats {
		g.Seats[i].Index = i
	}
	g.CreatedAt = g.now()
	g.Turn = NewTurnLedger(SeatCount, 0)
	g.resolver = NewResolver(CounterWindow, g.sched, g.now, g.onWindowExpire)
	return g
}

// Handle is the single entry point for inbound actions. Illegal actions are logged at debug
// level and leave the room untouched; the returned error is for callers that care.
func (g *Game) Handle(a models.Action) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.handle(a)
}

func (g *Game) handle(a models.Action) error {
	if err := g.dispatch(a); err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{
			"action": a.Type(),
			"player": a.Actor(),
			"phase":  g.Phase,
		}).Debug("ignored action")
		return err
	}
	g.logAction(a.Actor(), string(a.Type()), map[string]interface{}{"action": a})
	g.commit()
	return nil
}

// commit publishes the new state and then lets bots react to it.
func (g *Game) commit() {
	g.version++
	g.broadcast()
	g.scheduleBots()
}

func (g *Game) broadcast() {
	if g.BroadcastFn == nil {
		return
	}
	g.BroadcastFn(g.snapshot())
}

// onWindowExpire runs on the scheduler goroutine when a counter window times out.
func (g *Game) onWindowExpire(seq uint64) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	w, ok := g.resolver.Expire(seq)
	if !ok {
		return
	}
	g.log.WithFields(logrus.Fields{"origin": w.Origin, "counters": w.CounterCount}).Debug("counter window timed out")
	g.resolveWindow(w)
	g.commit()
}

// maybeCloseWindow closes the window early once everyone who has to answer has allowed.
func (g *Game) maybeCloseWindow() {
	if !g.resolver.Settled(g.activeSeats()) {
		return
	}
	if w, ok := g.resolver.Close(); ok {
		g.resolveWindow(w)
	}
}

// resolveWindow seals the originating discard and applies the effect on even parity.
func (g *Game) resolveWindow(w *Window) {
	applies := w.Applies()
	g.sealEntry(w.Origin, w.Chain, !applies)
	g.Phase = models.PhasePlaying

	if !applies {
		g.LastAction = &models.LastAction{
			Type:      w.Action.Type(),
			Seat:      w.Proposer,
			Cards:     w.Effect.Cards,
			Cancelled: true,
			Note:      "countered",
		}
		return
	}
	if !g.Seats[w.Proposer].Active() {
		g.LastAction = &models.LastAction{Type: w.Action.Type(), Seat: w.Proposer, Cards: w.Effect.Cards, Note: "proposer left"}
		return
	}
	g.LastAction = &models.LastAction{Type: w.Action.Type(), Seat: w.Proposer, Target: targetPtr(w.Effect.Target), Cards: w.Effect.Cards}
	g.apply(w.Effect)
}

// propose opens a counter window for e, or applies it right away when nobody else could counter.
func (g *Game) propose(a models.Action, e *Effect) error {
	if !g.counterPossible(e.Actor) {
		g.sealEntry(e.Stamp, nil, false)
		g.apply(e)
		return nil
	}
	if _, err := g.resolver.Propose(a, e, e.Actor, e.Stamp); err != nil {
		g.log.WithError(err).Error("a counter window is already open")
		return err
	}
	g.Phase = models.PhaseNopeWindow
	return nil
}

// counterPossible reports whether any active seat other than actor holds a counter card.
func (g *Game) counterPossible(actor int) bool {
	for i := range g.Seats {
		if i != actor && g.Seats[i].Active() && g.Seats[i].HasKind(models.KindCounter) {
			return true
		}
	}
	return false
}

func (g *Game) activeSeat(seat int) bool {
	return seat >= 0 && seat < SeatCount && g.Seats[seat].Active()
}

func (g *Game) activeSeats() []int {
	var out []int
	for i := range g.Seats {
		if g.Seats[i].Active() {
			out = append(out, i)
		}
	}
	return out
}

func (g *Game) occupiedSeats() []int {
	var out []int
	for i := range g.Seats {
		if !g.Seats[i].Empty() {
			out = append(out, i)
		}
	}
	return out
}

// seatOf returns the seat index of playerID, or -1.
func (g *Game) seatOf(playerID uuid.UUID) int {
	if playerID == uuid.Nil {
		return -1
	}
	for i := range g.Seats {
		if g.Seats[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// validTarget reports whether target is an active seat other than actor.
func (g *Game) validTarget(actor, target int) bool {
	return target != actor && g.activeSeat(target)
}

// endTurn completes one turn of the current seat and returns to PLAYING.
func (g *Game) endTurn() {
	g.Turn.EndTurn(g.activeSeat)
	g.Phase = models.PhasePlaying
}

// eliminate removes seat from play, discarding its hand and any extra cards (the bomb that
// killed it). The turn moves on if it was the seat's turn; one survivor ends the game.
func (g *Game) eliminate(seat int, extra ...models.Card) {
	s := &g.Seats[seat]
	cards := append(append([]models.Card{}, s.Hand...), extra...)
	s.Hand = nil
	s.Eliminated = true
	g.DiscardPile = append(g.DiscardPile, cards...)
	if len(cards) > 0 {
		stamp := g.recordDiscard(seat, cards, nil)
		g.sealEntry(stamp, nil, false)
	}
	g.log.WithField("seat", seat).Info("seat eliminated")
	g.logAction(s.PlayerID, "seat_eliminated", map[string]interface{}{"seat": seat})

	if g.favor != nil && (g.favor.Giver == seat || g.favor.Receiver == seat) {
		g.favor = nil
		if g.Phase == models.PhaseFavorGiving {
			g.Phase = models.PhasePlaying
		}
	}

	active := g.activeSeats()
	if len(active) <= 1 {
		winner := -1
		if len(active) == 1 {
			winner = active[0]
		}
		g.finish(winner)
		return
	}

	if g.Turn.Current == seat {
		g.Turn.ExtraTurnsOwed = 0
		g.Turn.Advance(g.activeSeat)
		switch g.Phase {
		case models.PhaseDefusing, models.PhaseInsertingKitten:
			// a defused bomb still in hand goes back on the discard with everything else
			if g.held != nil {
				g.DiscardPile = append(g.DiscardPile, *g.held)
				g.held = nil
			}
			g.Phase = models.PhasePlaying
		case models.PhaseBurying:
			if g.held != nil {
				g.DrawPile = append(g.DrawPile, *g.held)
				g.held = nil
			}
			g.Phase = models.PhasePlaying
		case models.PhaseAlterFuture:
			g.futureCount = 0
			g.Phase = models.PhasePlaying
		}
	}

	if g.Phase == models.PhaseNopeWindow {
		g.maybeCloseWindow()
	}
}

// finish ends the game. winner is -1 when nobody is left.
func (g *Game) finish(winner int) {
	g.resolver.Reset()
	g.held = nil
	g.favor = nil
	g.futureCount = 0
	g.Phase = models.PhaseEnded
	g.votes = make(map[int]bool)

	var winnerID uuid.UUID
	if winner >= 0 {
		g.Winner = intPtr(winner)
		winnerID = g.Seats[winner].PlayerID
	}
	g.log.WithField("winner", winner).Info("game ended")
	g.logAction(winnerID, "game_end", map[string]interface{}{"winnerSeat": winner})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winnerID)
	}
}

// stamp returns a room-unique, strictly increasing millisecond timestamp.
func (g *Game) stamp() int64 {
	ts := g.now().UnixMilli()
	if ts <= g.lastStamp {
		ts = g.lastStamp + 1
	}
	g.lastStamp = ts
	return ts
}

// recordDiscard appends an unsealed history entry and returns its timestamp.
func (g *Game) recordDiscard(actor int, cards []models.Card, target *int) int64 {
	ts := g.stamp()
	g.History = append(g.History, models.DiscardEntry{
		Actor:     actor,
		Cards:     append([]models.Card(nil), cards...),
		Timestamp: ts,
		Target:    target,
	})
	return ts
}

// sealEntry finalises the entry stamped ts. Sealed entries are never touched again.
func (g *Game) sealEntry(ts int64, chain []models.CounterMove, cancelled bool) {
	for i := len(g.History) - 1; i >= 0; i-- {
		e := &g.History[i]
		if e.Timestamp != ts {
			continue
		}
		if e.Sealed {
			return
		}
		e.CounterChain = append([]models.CounterMove(nil), chain...)
		e.WasCancelled = cancelled
		e.Sealed = true
		g.logAction(g.Seats[e.Actor].PlayerID, "discard_sealed", map[string]interface{}{"entry": *e})
		return
	}
	g.log.WithField("timestamp", ts).Warn("no discard entry to seal")
}

func (g *Game) addPrivateLog(kind models.PrivateLogKind, actor int, target *int, cards []models.Card, visibleTo ...int) {
	g.PrivateLogs = append(g.PrivateLogs, models.PrivateLog{
		Kind:      kind,
		Actor:     actor,
		Target:    target,
		Cards:     cards,
		VisibleTo: visibleTo,
		Timestamp: g.stamp(),
	})
}

// logAction pushes a record to the historian queue without blocking the room.
func (g *Game) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.RoomActionRecord{
		RoomID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     g.now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}
	go func(rec cache.RoomActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			g.log.WithError(err).WithField("index", rec.ActionIndex).Warn("failed to publish room action")
		}
	}(record)
}

func intPtr(i int) *int {
	return &i
}

func targetPtr(target int) *int {
	if target < 0 {
		return nil
	}
	return intPtr(target)
}

func (g *Game) hasHumans() bool {
	for i := range g.Seats {
		if !g.Seats[i].Empty() && !g.Seats[i].IsBot {
			return true
		}
	}
	return false
}
