package quiz_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdtechteam/partyquiz/internal/protocol"
)

type Session struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	State     string    `json:"state"`
	QuizID    int       `json:"quiz"`
	QuizTitle string    `json:"quiz_title"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionRequest struct {
	QuizID int `json:"quiz"`
}

func (c *QuizApiClient) ListSessions(ctx context.Context) ([]Session, error) {
	body, err := c.Get(ctx, SessionsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return sessions, nil
}

func (c *QuizApiClient) GetSession(ctx context.Context, code string) (*Session, error) {
	body, err := c.Get(ctx, SessionsEndpoint+code+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", code, err)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &session, nil
}

// CreateSession opens a new joinable session for a quiz. The returned code is
// what players type in and what the realtime endpoint is addressed by.
func (c *QuizApiClient) CreateSession(ctx context.Context, quizID int) (*Session, error) {
	payload, err := json.Marshal(CreateSessionRequest{QuizID: quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.Post(ctx, SessionsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &session, nil
}

func (c *QuizApiClient) GetSessionState(ctx context.Context, code string) (*protocol.SessionStatePayload, error) {
	body, err := c.Get(ctx, SessionsEndpoint+code+"/state/")
	if err != nil {
		return nil, fmt.Errorf("failed to get session state for %s: %w", code, err)
	}

	var state protocol.SessionStatePayload
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &state, nil
}

type JoinSessionRequest struct {
	SessionCode string `json:"session_code"`
	Name        string `json:"name"`
}

// JoinSession registers a player over HTTP. The realtime join command does the
// same thing socket-side; this path exists for pre-registering before the
// socket opens.
func (c *QuizApiClient) JoinSession(ctx context.Context, code, playerName string) (*protocol.Player, error) {
	payload, err := json.Marshal(JoinSessionRequest{SessionCode: code, Name: playerName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.Post(ctx, PlayersEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to join session %s: %w", code, err)
	}

	var player protocol.Player
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &player, nil
}

func (c *QuizApiClient) GetLeaderboard(ctx context.Context, code string) ([]protocol.LeaderboardEntry, error) {
	body, err := c.Get(ctx, SessionsEndpoint+code+"/leaderboard/")
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for %s: %w", code, err)
	}

	var leaderboard []protocol.LeaderboardEntry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return leaderboard, nil
}
