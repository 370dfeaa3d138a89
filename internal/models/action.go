package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ActionType is the wire tag of an inbound action message.
type ActionType string

const (
	ActionPlayCard       ActionType = "PLAY_CARD"
	ActionPlayCombo      ActionType = "PLAY_COMBO"
	ActionRespondCounter ActionType = "RESPOND_COUNTER"
	ActionDrawCard       ActionType = "DRAW_CARD"
	ActionDefuse         ActionType = "DEFUSE"
	ActionInsertKitten   ActionType = "INSERT_KITTEN"
	ActionGiveFavor      ActionType = "GIVE_FAVOR"
	ActionReorderFuture  ActionType = "REORDER_FUTURE"

	ActionJoinSlot       ActionType = "JOIN_SLOT"
	ActionAddBot         ActionType = "ADD_BOT"
	ActionRemovePlayer   ActionType = "REMOVE_PLAYER"
	ActionStartGame      ActionType = "START_GAME"
	ActionNewGame        ActionType = "NEW_GAME"
	ActionRequestNewGame ActionType = "REQUEST_NEW_GAME"
	ActionAcceptNewGame  ActionType = "ACCEPT_NEW_GAME"
	ActionDeclineNewGame ActionType = "DECLINE_NEW_GAME"
)

// CounterResponse is a seat's answer inside an interrupt window.
type CounterResponse string

const (
	ResponseCounter CounterResponse = "COUNTER"
	ResponseAllow   CounterResponse = "ALLOW"
)

// InsertPosition selects where a card goes back into the draw pile.
type InsertPosition string

const (
	InsertTop    InsertPosition = "top"
	InsertMiddle InsertPosition = "middle"
	InsertBottom InsertPosition = "bottom"
	InsertRandom InsertPosition = "random"
	InsertIndex  InsertPosition = "index"
)

// Action is the closed set of inbound requests. Each variant carries exactly the fields it needs.
type Action interface {
	Type() ActionType
	Actor() uuid.UUID
	isAction()
}

// PlayCard plays a single card from hand. TargetPlayerID is required for favor and targeted attack.
type PlayCard struct {
	PlayerID       uuid.UUID `json:"playerId"`
	CardIndex      int       `json:"cardIndex"`
	TargetPlayerID uuid.UUID `json:"targetPlayerId,omitempty"`
}

// PlayCombo plays 2, 3 or 5 cards as a steal. RequestedKind names the card for 3 and 5 card combos.
type PlayCombo struct {
	PlayerID       uuid.UUID `json:"playerId"`
	CardIndices    []int     `json:"cardIndices"`
	TargetPlayerID uuid.UUID `json:"targetPlayerId,omitempty"`
	RequestedKind  CardKind  `json:"requestedKind,omitempty"`
}

// RespondCounter answers an open interrupt window. CardID optionally picks which counter card
// to spend; zero means the first one in hand.
type RespondCounter struct {
	PlayerID uuid.UUID       `json:"playerId"`
	Response CounterResponse `json:"response"`
	CardID   int             `json:"cardId,omitempty"`
}

type DrawCard struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type Defuse struct {
	PlayerID uuid.UUID `json:"playerId"`
}

// InsertKitten places the held card (a defused bomb or a buried card) back into the draw pile.
// Index counts from the top of the pile (0 = next card drawn) and is used with InsertIndex.
type InsertKitten struct {
	PlayerID uuid.UUID      `json:"playerId"`
	Position InsertPosition `json:"position"`
	Index    int            `json:"index,omitempty"`
}

type GiveFavor struct {
	PlayerID  uuid.UUID `json:"playerId"`
	CardIndex int       `json:"cardIndex"`
}

// ReorderFuture submits a permutation of the revealed cards; Order[i] is the revealed position
// (0 = top) of the card that should end up at position i.
type ReorderFuture struct {
	PlayerID uuid.UUID `json:"playerId"`
	Order    []int     `json:"order"`
}

// JoinSlot seats the sender. Seat -1, or no seat at all on the wire, picks the lowest empty seat.
type JoinSlot struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name,omitempty"`
	Seat     int       `json:"seat"`
}

// AddBot seats a bot. Seat -1, or no seat at all on the wire, picks the lowest empty seat.
type AddBot struct {
	PlayerID uuid.UUID `json:"playerId"`
	Seat     int       `json:"seat"`
}

// AnySeat asks for the lowest empty seat.
const AnySeat = -1

func (a *JoinSlot) UnmarshalJSON(data []byte) error {
	type plain JoinSlot
	v := plain{Seat: AnySeat}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = JoinSlot(v)
	return nil
}

func (a *AddBot) UnmarshalJSON(data []byte) error {
	type plain AddBot
	v := plain{Seat: AnySeat}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AddBot(v)
	return nil
}

// RemovePlayer removes TargetPlayerID, or the sender when the target is empty.
type RemovePlayer struct {
	PlayerID       uuid.UUID `json:"playerId"`
	TargetPlayerID uuid.UUID `json:"targetPlayerId,omitempty"`
}

type StartGame struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type NewGame struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type RequestNewGame struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type AcceptNewGame struct {
	PlayerID uuid.UUID `json:"playerId"`
}

type DeclineNewGame struct {
	PlayerID uuid.UUID `json:"playerId"`
}

func (a PlayCard) Type() ActionType       { return ActionPlayCard }
func (a PlayCombo) Type() ActionType      { return ActionPlayCombo }
func (a RespondCounter) Type() ActionType { return ActionRespondCounter }
func (a DrawCard) Type() ActionType       { return ActionDrawCard }
func (a Defuse) Type() ActionType         { return ActionDefuse }
func (a InsertKitten) Type() ActionType   { return ActionInsertKitten }
func (a GiveFavor) Type() ActionType      { return ActionGiveFavor }
func (a ReorderFuture) Type() ActionType  { return ActionReorderFuture }
func (a JoinSlot) Type() ActionType       { return ActionJoinSlot }
func (a AddBot) Type() ActionType         { return ActionAddBot }
func (a RemovePlayer) Type() ActionType   { return ActionRemovePlayer }
func (a StartGame) Type() ActionType      { return ActionStartGame }
func (a NewGame) Type() ActionType        { return ActionNewGame }
func (a RequestNewGame) Type() ActionType { return ActionRequestNewGame }
func (a AcceptNewGame) Type() ActionType  { return ActionAcceptNewGame }
func (a DeclineNewGame) Type() ActionType { return ActionDeclineNewGame }

func (a PlayCard) Actor() uuid.UUID       { return a.PlayerID }
func (a PlayCombo) Actor() uuid.UUID      { return a.PlayerID }
func (a RespondCounter) Actor() uuid.UUID { return a.PlayerID }
func (a DrawCard) Actor() uuid.UUID       { return a.PlayerID }
func (a Defuse) Actor() uuid.UUID         { return a.PlayerID }
func (a InsertKitten) Actor() uuid.UUID   { return a.PlayerID }
func (a GiveFavor) Actor() uuid.UUID      { return a.PlayerID }
func (a ReorderFuture) Actor() uuid.UUID  { return a.PlayerID }
func (a JoinSlot) Actor() uuid.UUID       { return a.PlayerID }
func (a AddBot) Actor() uuid.UUID         { return a.PlayerID }
func (a RemovePlayer) Actor() uuid.UUID   { return a.PlayerID }
func (a StartGame) Actor() uuid.UUID      { return a.PlayerID }
func (a NewGame) Actor() uuid.UUID        { return a.PlayerID }
func (a RequestNewGame) Actor() uuid.UUID { return a.PlayerID }
func (a AcceptNewGame) Actor() uuid.UUID  { return a.PlayerID }
func (a DeclineNewGame) Actor() uuid.UUID { return a.PlayerID }

func (PlayCard) isAction()       {}
func (PlayCombo) isAction()      {}
func (RespondCounter) isAction() {}
func (DrawCard) isAction()       {}
func (Defuse) isAction()         {}
func (InsertKitten) isAction()   {}
func (GiveFavor) isAction()      {}
func (ReorderFuture) isAction()  {}
func (JoinSlot) isAction()       {}
func (AddBot) isAction()         {}
func (RemovePlayer) isAction()   {}
func (StartGame) isAction()      {}
func (NewGame) isAction()        {}
func (RequestNewGame) isAction() {}
func (AcceptNewGame) isAction()  {}
func (DeclineNewGame) isAction() {}

// ErrUnknownAction is returned by DecodeAction for an unrecognised type tag.
var ErrUnknownAction = errors.New("unknown action type")

// DecodeAction parses a tagged JSON action message into its variant.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode action envelope: %w", err)
	}

	var a Action
	var err error
	switch envelope.Type {
	case ActionPlayCard:
		a, err = decodeInto[PlayCard](data)
	case ActionPlayCombo:
		a, err = decodeInto[PlayCombo](data)
	case ActionRespondCounter:
		a, err = decodeInto[RespondCounter](data)
	case ActionDrawCard:
		a, err = decodeInto[DrawCard](data)
	case ActionDefuse:
		a, err = decodeInto[Defuse](data)
	case ActionInsertKitten:
		a, err = decodeInto[InsertKitten](data)
	case ActionGiveFavor:
		a, err = decodeInto[GiveFavor](data)
	case ActionReorderFuture:
		a, err = decodeInto[ReorderFuture](data)
	case ActionJoinSlot:
		a, err = decodeInto[JoinSlot](data)
	case ActionAddBot:
		a, err = decodeInto[AddBot](data)
	case ActionRemovePlayer:
		a, err = decodeInto[RemovePlayer](data)
	case ActionStartGame:
		a, err = decodeInto[StartGame](data)
	case ActionNewGame:
		a, err = decodeInto[NewGame](data)
	case ActionRequestNewGame:
		a, err = decodeInto[RequestNewGame](data)
	case ActionAcceptNewGame:
		a, err = decodeInto[AcceptNewGame](data)
	case ActionDeclineNewGame:
		a, err = decodeInto[DeclineNewGame](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", envelope.Type, err)
	}
	return a, nil
}

func decodeInto[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// WithActor returns a copy of a with its PlayerID replaced. The transport uses it to stamp the
// authenticated identity over whatever the client claimed.
func WithActor(a Action, id uuid.UUID) Action {
	switch v := a.(type) {
	case PlayCard:
		v.PlayerID = id
		return v
	case PlayCombo:
		v.PlayerID = id
		return v
	case RespondCounter:
		v.PlayerID = id
		return v
	case DrawCard:
		v.PlayerID = id
		return v
	case Defuse:
		v.PlayerID = id
		return v
	case InsertKitten:
		v.PlayerID = id
		return v
	case GiveFavor:
		v.PlayerID = id
		return v
	case ReorderFuture:
		v.PlayerID = id
		return v
	case JoinSlot:
		v.PlayerID = id
		return v
	case AddBot:
		v.PlayerID = id
		return v
	case RemovePlayer:
		v.PlayerID = id
		return v
	case StartGame:
		v.PlayerID = id
		return v
	case NewGame:
		v.PlayerID = id
		return v
	case RequestNewGame:
		v.PlayerID = id
		return v
	case AcceptNewGame:
		v.PlayerID = id
		return v
	case DeclineNewGame:
		v.PlayerID = id
		return v
	}
	return a
}
