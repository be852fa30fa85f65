package session

import (
	"github.com/pdtechteam/partyquiz/internal/protocol"
)

// Phase is the client's coarse view of where it is in the game flow.
type Phase string

const (
	PhaseJoin     Phase = "join"
	PhaseWaiting  Phase = "waiting"
	PhaseQuestion Phase = "question"
	PhaseResult   Phase = "result"
	PhaseFinal    Phase = "final"
)

// ConnectionState describes the transport lifecycle as the client sees it.
// It is the one piece of state that survives reconnection untouched, because
// it is the description of reconnection itself.
type ConnectionState struct {
	Connected    bool
	Reconnecting bool
	Attempt      int
	MaxAttempts  int
	Failed       bool
}

// RoundResult is the outcome of one closed round: my own answer's outcome
// (from answer_received) merged with the revealed question and standings
// (from question_result). It is superseded entirely by the next question.
type RoundResult struct {
	IsCorrect    bool
	PointsEarned int
	Reply        string
	Question     *protocol.Question
	Leaderboard  []protocol.LeaderboardEntry
}

// State is the client's belief about the shared session. The machine is its
// only writer; presentation reads copies via Snapshot.
type State struct {
	Phase        Phase
	SessionPhase string // server-owned: waiting | running | paused | finished
	SessionCode  string
	QuizTitle    string

	MyPlayer *protocol.Player
	IsHost   bool
	Players  []protocol.Player

	CurrentQuestion *protocol.Question
	LastResult      *RoundResult
	AnswerStats     *protocol.AnswerStatsPayload

	Leaderboard []protocol.LeaderboardEntry
	Awards      map[string]protocol.Award

	Paused    bool
	Countdown int // resume 3-2-1, zero when idle

	Connection ConnectionState
}

// clone produces a copy safe to hand outside the machine's lock. Slices and
// maps are reallocated; the caller owns the result.
func (s State) clone() State {
	out := s
	if s.MyPlayer != nil {
		p := *s.MyPlayer
		out.MyPlayer = &p
	}
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Choices = append([]protocol.Choice(nil), s.CurrentQuestion.Choices...)
		out.CurrentQuestion = &q
	}
	if s.LastResult != nil {
		r := *s.LastResult
		r.Leaderboard = append([]protocol.LeaderboardEntry(nil), s.LastResult.Leaderboard...)
		if s.LastResult.Question != nil {
			q := *s.LastResult.Question
			q.Choices = append([]protocol.Choice(nil), s.LastResult.Question.Choices...)
			r.Question = &q
		}
		out.LastResult = &r
	}
	if s.AnswerStats != nil {
		st := *s.AnswerStats
		out.AnswerStats = &st
	}
	out.Players = append([]protocol.Player(nil), s.Players...)
	out.Leaderboard = append([]protocol.LeaderboardEntry(nil), s.Leaderboard...)
	if s.Awards != nil {
		out.Awards = make(map[string]protocol.Award, len(s.Awards))
		for k, v := range s.Awards {
			out.Awards[k] = v
		}
	}
	return out
}
