package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MessageType is the discriminator of a client-to-server message.
type MessageType string

// Outbound message vocabulary. Each corresponds 1:1 to a server handler.
const (
	MsgJoin         MessageType = "join"
	MsgBecomeHost   MessageType = "become_host"
	MsgStartGame    MessageType = "start_game"
	MsgAnswer       MessageType = "answer"
	MsgPauseGame    MessageType = "pause_game"
	MsgResumeGame   MessageType = "resume_game"
	MsgSkipQuestion MessageType = "skip_question"
	MsgNextQuestion MessageType = "next_question"
	MsgEndGame      MessageType = "end_game"
	MsgPing         MessageType = "ping"
	MsgReaction     MessageType = "reaction"
)

// JoinMessage asks the server to create or re-associate a player.
type JoinMessage struct {
	PlayerName string `json:"player_name"`
}

// AnswerMessage submits one answer for one question instance.
type AnswerMessage struct {
	QuestionUUID uuid.UUID `json:"question_uuid"`
	ChoiceID     int       `json:"choice_id"`
	TimeTaken    float64   `json:"time_taken"`
}

// ReactionMessage broadcasts an emoji reaction.
type ReactionMessage struct {
	Emoji string `json:"emoji"`
}

// EncodeMessage flattens a payload struct and the type discriminator into one
// frame, the shape the server's consumer expects: {"type": ..., fields...}.
// A nil payload encodes a bare {"type": ...} frame.
func EncodeMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	fields := map[string]interface{}{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
	}
	fields["type"] = string(msgType)
	frame, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", msgType, err)
	}
	return frame, nil
}
