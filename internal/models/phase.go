package models

// Phase is the controller state of a room.
type Phase string

const (
	PhaseWaiting         Phase = "WAITING"
	PhasePlaying         Phase = "PLAYING"
	PhaseDefusing        Phase = "DEFUSING"
	PhaseNopeWindow      Phase = "NOPE_WINDOW"
	PhaseInsertingKitten Phase = "INSERTING_KITTEN"
	PhaseBurying         Phase = "BURYING"
	PhaseFavorGiving     Phase = "FAVOR_GIVING"
	PhaseAlterFuture     Phase = "ALTER_THE_FUTURE"
	PhaseEnded           Phase = "ENDED"
)

// InGame reports whether a game is running (any phase between start and end).
func (p Phase) InGame() bool {
	return p != PhaseWaiting && p != PhaseEnded
}
