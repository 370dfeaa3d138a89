package game

import "errors"

// Rejections. Handle logs these at debug level and leaves the room untouched.
var (
	ErrNotSeated        = errors.New("player is not seated in this room")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrBadCardIndex     = errors.New("card index out of range")
	ErrUnplayable       = errors.New("card cannot be played on its own")
	ErrBadCombo         = errors.New("malformed combo")
	ErrBadTarget        = errors.New("invalid target seat")
	ErrBadPosition      = errors.New("invalid insert position")
	ErrBadOrder         = errors.New("order is not a permutation of the revealed cards")
	ErrNoCounterCard    = errors.New("no counter card in hand")
	ErrNotWaiting       = errors.New("seat cannot counter its own move")
	ErrWindowClosed     = errors.New("no counter window is open")
	ErrNotHost          = errors.New("only the host can do that")
	ErrSeatTaken        = errors.New("seat is occupied")
	ErrNoFreeSeat       = errors.New("no free seat")
	ErrNotEnoughPlayers = errors.New("at least two seated players are required")
	ErrEmptyPiles       = errors.New("draw and discard piles are both empty")
	ErrNoVote           = errors.New("no new-game vote is open")
)

// ErrWindowOpen means a second counter window was proposed while one is live. The controller's
// phase gating makes this unreachable; reaching it is a bug.
var ErrWindowOpen = errors.New("a counter window is already open")
