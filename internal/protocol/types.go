package protocol

import (
	"time"

	"github.com/google/uuid"
)

// Player represents one participant of a session as the server reports it.
type Player struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	Connected     bool      `json:"connected"`
	IsHost        bool      `json:"is_host"`
	JoinedAt      time.Time `json:"joined_at"`
	SessionCode   string    `json:"session_code,omitempty"`
}

// Choice is one selectable option of a question. IsCorrect is only populated
// after the round closes; during an active question the server strips it.
type Choice struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// Question is one question instance. UUID is unique per instance, so the same
// text appearing in two rounds is still two distinct questions.
type Question struct {
	UUID       uuid.UUID `json:"uuid"`
	Order      int       `json:"order"`
	Text       string    `json:"text"`
	Difficulty string    `json:"difficulty,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	TimeLimit  float64   `json:"time_limit"`
	Choices    []Choice  `json:"choices"`
}

// LeaderboardEntry is one row of the score table, already ranked by the server.
type LeaderboardEntry struct {
	Position      int    `json:"position"`
	PlayerID      int    `json:"player_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	CurrentStreak int    `json:"current_streak"`
	Connected     bool   `json:"connected"`
	IsHost        bool   `json:"is_host"`
}

// Award is one end-of-game award, keyed by award kind in GameOverPayload.
type Award struct {
	PlayerID    int     `json:"player_id"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// Server-owned session phases. The client only ever observes these.
const (
	SessionWaiting  = "waiting"
	SessionRunning  = "running"
	SessionPaused   = "paused"
	SessionFinished = "finished"
)
