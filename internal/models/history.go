package models

// CounterMove is one link of a counter chain, in submission order.
type CounterMove struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// DiscardEntry is an append-only audit record of cards leaving a hand. Timestamp is unique
// within a room and joins a pending interrupt window to the discard that opened it.
// Once Sealed the entry is never modified again.
type DiscardEntry struct {
	Actor        int           `json:"actor"`
	Cards        []Card        `json:"cards"`
	Timestamp    int64         `json:"timestamp"`
	Target       *int          `json:"target,omitempty"`
	CounterChain []CounterMove `json:"counterChain,omitempty"`
	WasCancelled bool          `json:"wasCancelled"`
	Sealed       bool          `json:"sealed"`
}

// PrivateLogKind names the narrative a private log entry describes.
type PrivateLogKind string

const (
	LogSteal       PrivateLogKind = "steal"
	LogFavor       PrivateLogKind = "favor"
	LogPeek        PrivateLogKind = "peek"
	LogAlterFuture PrivateLogKind = "alter_future"
	LogDrawn       PrivateLogKind = "drawn"
	LogBury        PrivateLogKind = "bury"
)

// PrivateLog is a record only some seats should be shown. Consumers filter on VisibleTo.
type PrivateLog struct {
	Kind      PrivateLogKind `json:"kind"`
	Actor     int            `json:"actor"`
	Target    *int           `json:"target,omitempty"`
	Cards     []Card         `json:"cards,omitempty"`
	VisibleTo []int          `json:"visibleTo"`
	Timestamp int64          `json:"timestamp"`
}

// LastAction summarises the most recent state transition for UI narration.
type LastAction struct {
	Type      ActionType `json:"type"`
	Seat      int        `json:"seat"`
	Target    *int       `json:"target,omitempty"`
	Cards     []Card     `json:"cards,omitempty"`
	Cancelled bool       `json:"cancelled,omitempty"`
	Note      string     `json:"note,omitempty"`
}
