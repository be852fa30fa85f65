package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pdtechteam/partyquiz/internal/protocol"
)

// armCountdownLocked starts the per-question deadline timer. When it fires
// without a manual answer, the first choice in wire order is submitted with
// the full time limit recorded as the elapsed time, so a distracted player
// still scores zero-speed points instead of being dropped from the round.
// Caller holds m.mu.
func (m *Machine) armCountdownLocked(q protocol.Question) {
	m.cancelCountdownLocked()
	m.answered = false
	m.startedAt = m.clock.Now()

	if q.TimeLimit <= 0 || len(q.Choices) == 0 {
		return
	}
	deadline := time.Duration(q.TimeLimit * float64(time.Second))
	questionUUID := q.UUID
	fallbackChoice := q.Choices[0].ID
	limit := q.TimeLimit
	m.countdown = m.clock.AfterFunc(deadline, func() {
		m.autoSubmit(questionUUID, fallbackChoice, limit)
	})
}

// cancelCountdownLocked stops a pending deadline timer. Caller holds m.mu.
func (m *Machine) cancelCountdownLocked() {
	if m.countdown != nil {
		m.countdown.Stop()
		m.countdown = nil
	}
}

// autoSubmit fires on the question deadline. It re-checks that the same
// question is still active and unanswered before sending, so a late timer
// for a superseded question is inert.
func (m *Machine) autoSubmit(questionUUID uuid.UUID, choiceID int, timeTaken float64) {
	m.mu.Lock()
	if m.st.Phase != PhaseQuestion || m.st.CurrentQuestion == nil ||
		m.st.CurrentQuestion.UUID != questionUUID || m.answered {
		m.mu.Unlock()
		return
	}
	m.answered = true
	m.mu.Unlock()

	log.Info().
		Str("question", questionUUID.String()).
		Int("choice_id", choiceID).
		Msg("time expired, submitting fallback answer")
	if err := m.cmds.Answer(questionUUID, choiceID, timeTaken); err != nil {
		log.Warn().Err(err).Msg("fallback answer not delivered")
	}
}
