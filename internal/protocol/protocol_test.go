package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReadsDiscriminatorAndKeepsFrame(t *testing.T) {
	frame := []byte(`{"type":"joined","player":{"id":7,"name":"ann"}}`)

	ev, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, EventJoined, ev.Type)

	payload, err := ParsePayload(ev)
	require.NoError(t, err)
	joined, ok := payload.(JoinedPayload)
	require.True(t, ok)
	assert.Equal(t, 7, joined.Player.ID)
	assert.Equal(t, "ann", joined.Player.Name)
}

func TestDecodeRejectsFramesWithoutType(t *testing.T) {
	_, err := Decode([]byte(`{"player":{"id":7}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestParsePayloadIgnoresUnknownTypes(t *testing.T) {
	payload, err := ParsePayload(Event{Type: "shiny_new_event", Data: []byte(`{"type":"shiny_new_event","x":1}`)})
	require.NoError(t, err)
	assert.Nil(t, payload)

	// marker events carry no payload either
	payload, err = ParsePayload(Event{Type: EventGameStarted, Data: []byte(`{"type":"game_started"}`)})
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestEncodeMessageFlattensPayload(t *testing.T) {
	qid := uuid.New()
	frame, err := EncodeMessage(MsgAnswer, AnswerMessage{
		QuestionUUID: qid,
		ChoiceID:     5,
		TimeTaken:    3.2,
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &got))
	assert.Equal(t, "answer", got["type"])
	assert.Equal(t, qid.String(), got["question_uuid"])
	assert.Equal(t, float64(5), got["choice_id"])
	assert.InDelta(t, 3.2, got["time_taken"], 0.001)
}

func TestEncodeMessageNilPayloadIsBareType(t *testing.T) {
	frame, err := EncodeMessage(MsgPing, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(frame))
}

func TestQuestionRoundTripKeepsHiddenCorrectness(t *testing.T) {
	raw := []byte(`{"uuid":"a2f1f31e-3c7a-4bb0-9c40-3c2a7dbb8f10","order":2,"text":"capital of France?","time_limit":20,"choices":[{"id":1,"text":"Paris","order":0},{"id":2,"text":"Lyon","order":1}]}`)

	var q Question
	require.NoError(t, json.Unmarshal(raw, &q))
	assert.Equal(t, 20.0, q.TimeLimit)
	require.Len(t, q.Choices, 2)
	// active questions arrive with correctness stripped
	assert.Nil(t, q.Choices[0].IsCorrect)
}
