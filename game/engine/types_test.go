package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wricardo/set-game/game/card"
)

func TestPickOutcomeIsSet(t *testing.T) {
	require.True(t, PickOutcome{Result: PickSet}.IsSet())
	require.False(t, PickOutcome{Result: PickNotSet}.IsSet())
	require.False(t, PickOutcome{Result: PickRejected, Reason: ErrGameEnded}.IsSet())
}

func TestPickOutcomeJSONOmitsReason(t *testing.T) {
	data, err := json.Marshal(PickOutcome{Result: PickRejected, Score: -2, Reason: ErrCardNotOnField})
	require.NoError(t, err)
	require.JSONEq(t, `{"result":"rejected","score":-2}`, string(data))
}

func TestSnapshotScore(t *testing.T) {
	snap := &Snapshot{Scores: map[string]int{"a": 3, "b": -1}}

	require.Equal(t, 3, snap.Score("a"))
	require.Equal(t, -1, snap.Score("b"))
	require.Zero(t, snap.Score("never-joined"))
}

func TestSnapshotCardsAccounted(t *testing.T) {
	snap := &Snapshot{
		Field:       card.Generate()[:12],
		DeckSize:    60,
		SetsClaimed: 3,
	}
	require.Equal(t, card.DeckSize, snap.CardsAccounted())
}
