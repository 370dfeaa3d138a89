// internal/game/turn.go
package game

// TurnLedger tracks whose turn it is, the play direction, and the attack stack.
type TurnLedger struct {
	Current        int `json:"currentSeat"`
	Direction      int `json:"direction"`      // +1 or -1
	ExtraTurnsOwed int `json:"extraTurnsOwed"` // turns the current seat must still complete before the turn passes
	seatCount      int
}

// NewTurnLedger returns a ledger over seatCount seats starting at seat start, moving forward.
func NewTurnLedger(seatCount, start int) TurnLedger {
	return TurnLedger{Current: start, Direction: 1, seatCount: seatCount}
}

// Next returns the seat Advance would land on without moving. ok is false when no seat other
// than the current one is eligible.
func (t *TurnLedger) Next(eligible func(seat int) bool) (int, bool) {
	seat := t.Current
	for i := 0; i < t.seatCount; i++ {
		seat = ((seat+t.Direction)%t.seatCount + t.seatCount) % t.seatCount
		if seat == t.Current {
			break
		}
		if eligible(seat) {
			return seat, true
		}
	}
	return t.Current, false
}

// Advance moves Current by Direction, skipping ineligible seats. It leaves the ledger unchanged
// when no other seat is eligible; the controller detects that case as a victory first.
func (t *TurnLedger) Advance(eligible func(seat int) bool) bool {
	next, ok := t.Next(eligible)
	if ok {
		t.Current = next
	}
	return ok
}

// Reverse flips the direction. With only two active players a flip would not change who goes
// next, so it is skipped and the card behaves exactly like a skip.
func (t *TurnLedger) Reverse(activeCount int) {
	if activeCount > 2 {
		t.Direction = -t.Direction
	}
}

// AddExtraTurns grows the attack stack by n.
func (t *TurnLedger) AddExtraTurns(n int) {
	if n > 0 {
		t.ExtraTurnsOwed += n
	}
}

// ConsumeExtraTurn records one completed turn against the stack, never going below zero.
func (t *TurnLedger) ConsumeExtraTurn() {
	if t.ExtraTurnsOwed > 0 {
		t.ExtraTurnsOwed--
	}
}

// EndTurn completes the current seat's turn. The seat keeps the turn while it still owes turns;
// otherwise the turn advances. It returns true when the turn passed to another seat.
func (t *TurnLedger) EndTurn(eligible func(seat int) bool) bool {
	t.ConsumeExtraTurn()
	if t.ExtraTurnsOwed > 0 {
		return false
	}
	return t.Advance(eligible)
}

// PassStack hands the current stack plus add turns to seat target and makes it current. Used by
// attack-class cards, which end the attacker's turn without consuming from the stack.
func (t *TurnLedger) PassStack(target, add int) {
	owed := t.ExtraTurnsOwed + add
	t.Current = target
	t.ExtraTurnsOwed = owed
}
