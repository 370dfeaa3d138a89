package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	id := uuid.New()
	raw := `{"type":"PLAY_COMBO","playerId":"` + id.String() + `","cardIndices":[0,2,4],"requestedKind":"defuse"}`

	a, err := DecodeAction([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, PlayCombo{PlayerID: id, CardIndices: []int{0, 2, 4}, RequestedKind: KindDefuse}, a)
	assert.Equal(t, ActionPlayCombo, a.Type())
	assert.Equal(t, id, a.Actor())
}

func TestDecodeActionErrors(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"SHUFFLE_HANDS"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeAction([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeAction([]byte(`{"type":"PLAY_CARD","cardIndex":"one"}`))
	assert.Error(t, err)
}

func TestWithActor(t *testing.T) {
	claimed, authed := uuid.New(), uuid.New()
	a, err := DecodeAction([]byte(`{"type":"RESPOND_COUNTER","playerId":"` + claimed.String() + `","response":"COUNTER","cardId":7}`))
	require.NoError(t, err)

	stamped := WithActor(a, authed)
	assert.Equal(t, RespondCounter{PlayerID: authed, Response: ResponseCounter, CardID: 7}, stamped)
	assert.Equal(t, claimed, a.Actor(), "the original is untouched")
}

func TestDecodeSeatDefaultsToAnySeat(t *testing.T) {
	cases := []struct {
		raw  string
		want Action
	}{
		{`{"type":"JOIN_SLOT"}`, JoinSlot{Seat: AnySeat}},
		{`{"type":"JOIN_SLOT","seat":0,"name":"ann"}`, JoinSlot{Seat: 0, Name: "ann"}},
		{`{"type":"ADD_BOT"}`, AddBot{Seat: AnySeat}},
		{`{"type":"ADD_BOT","seat":3}`, AddBot{Seat: 3}},
	}
	for _, tc := range cases {
		a, err := DecodeAction([]byte(tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, a, tc.raw)
	}
}
