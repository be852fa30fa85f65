package protocol

import (
	"encoding/json"
	"fmt"
)

// EventType is the discriminator carried in every frame's "type" field.
type EventType string

// Wire events consumed by the client. Every frame on the session channel is a
// flat JSON object with a "type" key and the payload fields alongside it.
const (
	EventSessionState       EventType = "session_state"
	EventJoined             EventType = "joined"
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerDisconnected EventType = "player_disconnected"
	EventHostAssigned       EventType = "host_assigned"
	EventHostDisconnected   EventType = "host_disconnected"
	EventGameStarted        EventType = "game_started"
	EventQuestion           EventType = "question"
	EventAnswerReceived     EventType = "answer_received"
	EventQuestionResult     EventType = "question_result"
	EventAnswerStats        EventType = "answer_stats"
	EventGamePaused         EventType = "game_paused"
	EventCountdown          EventType = "countdown"
	EventGameResumed        EventType = "game_resumed"
	EventGameOver           EventType = "game_over"
	EventPlayerReaction     EventType = "player_reaction"
	EventPong               EventType = "pong"
	EventError              EventType = "error"
)

// Transport lifecycle events. These are emitted locally by the transport and
// never appear on the wire.
const (
	EventConnected       EventType = "connected"
	EventReconnected     EventType = "reconnected"
	EventDisconnected    EventType = "disconnected"
	EventReconnecting    EventType = "reconnecting"
	EventReconnectFailed EventType = "reconnect_failed"
)

// Event is the envelope handed to subscribers. Data holds the complete frame
// (discriminator included) so payload fields can be unmarshalled lazily.
type Event struct {
	Type EventType
	Data json.RawMessage
}

// Decode extracts the type discriminator from a raw frame.
func Decode(frame []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(frame, &head); err != nil {
		return Event{}, fmt.Errorf("decode frame: %w", err)
	}
	if head.Type == "" {
		return Event{}, fmt.Errorf("decode frame: missing type discriminator")
	}
	return Event{Type: head.Type, Data: frame}, nil
}

// ParsePayload unmarshals an event's payload into its typed struct. Unknown
// event types return (nil, nil): the protocol treats them as ignorable, not as
// errors, so old clients survive new server events.
func ParsePayload(ev Event) (interface{}, error) {
	switch ev.Type {
	case EventSessionState:
		var p SessionStatePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventJoined:
		var p JoinedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventPlayerJoined:
		var p PlayerJoinedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventPlayerDisconnected:
		var p PlayerDisconnectedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventHostAssigned:
		var p HostAssignedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventHostDisconnected:
		var p HostDisconnectedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventQuestion:
		var p QuestionPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventAnswerReceived:
		var p AnswerReceivedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventQuestionResult:
		var p QuestionResultPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventAnswerStats:
		var p AnswerStatsPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventCountdown:
		var p CountdownPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventGameOver:
		var p GameOverPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventPlayerReaction:
		var p PlayerReactionPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventError:
		var p ErrorPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	case EventReconnecting:
		var p ReconnectingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, nil // marker events (game_started, pong, ...) and unknown types
	}
}
