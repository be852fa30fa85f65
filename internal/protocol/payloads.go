package protocol

// SessionStatePayload mirrors the server's session snapshot, sent on connect
// and after roster changes.
type SessionStatePayload struct {
	ID                    int       `json:"id"`
	Code                  string    `json:"code"`
	State                 string    `json:"state"`
	QuizTitle             string    `json:"quiz_title"`
	CurrentQuestion       int       `json:"current_question"`
	CurrentQuestionData   *Question `json:"current_question_data,omitempty"`
	Players               []Player  `json:"players"`
	ConnectedPlayersCount int       `json:"connected_players_count"`
}

// JoinedPayload is the point-to-point confirmation of my own join. It is the
// first place the server-assigned player id becomes known.
type JoinedPayload struct {
	Player Player `json:"player"`
}

// PlayerJoinedPayload is broadcast to everyone when any participant joins.
type PlayerJoinedPayload struct {
	Player Player `json:"player"`
}

// PlayerDisconnectedPayload is broadcast when a participant drops.
type PlayerDisconnectedPayload struct {
	Player   *Player `json:"player,omitempty"`
	PlayerID int     `json:"player_id,omitempty"`
}

// HostAssignedPayload names the participant now holding host privileges.
type HostAssignedPayload struct {
	Player Player `json:"player"`
}

// HostDisconnectedPayload signals the host dropped and the server auto-paused.
type HostDisconnectedPayload struct {
	Message string `json:"message"`
}

// QuestionPayload opens a new round.
type QuestionPayload struct {
	Question Question `json:"question"`
}

// AnswerReceivedPayload is the outcome of my own submitted answer.
type AnswerReceivedPayload struct {
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	Reply        string `json:"reply,omitempty"`
}

// QuestionResultPayload closes a round: the question with correct choices
// revealed plus the current standings.
type QuestionResultPayload struct {
	Question    Question           `json:"question"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// AnswerStatsPayload is the live "how many answered" tally. Answered is a
// server-formatted "n/m" string.
type AnswerStatsPayload struct {
	Answered string `json:"answered"`
	Correct  int    `json:"correct"`
}

// CountdownPayload carries the 3-2-1 resume countdown.
type CountdownPayload struct {
	Count int `json:"count"`
}

// GameOverPayload is the terminal event: final standings and awards keyed by
// award kind ("fastest", "accurate", ...).
type GameOverPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Awards      map[string]Award   `json:"awards,omitempty"`
}

// PlayerReactionPayload is a broadcast emoji reaction.
type PlayerReactionPayload struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Emoji      string `json:"emoji"`
}

// ErrorPayload is a protocol-level error from the server. It never changes the
// session phase.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ReconnectingPayload accompanies each local reconnection attempt so the
// presentation can render progress.
type ReconnectingPayload struct {
	Attempt     int `json:"attempt"`
	MaxAttempts int `json:"max_attempts"`
}
