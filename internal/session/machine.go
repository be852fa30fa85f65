// Package session holds the client-side view of one shared quiz session: a
// state machine fed by transport events, the identity resolver that filters
// broadcast events down to "about me", the per-question countdown with its
// automatic answer, and the typed command façade.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pdtechteam/partyquiz/internal/protocol"
	"github.com/pdtechteam/partyquiz/internal/transport"
)

// Logic errors: the call is a no-op, logged locally, never fatal.
var (
	ErrNoActiveQuestion = errors.New("session: no active question")
	ErrNotJoined        = errors.New("session: not joined yet")
	ErrNotHost          = errors.New("session: host commands require the host role")
)

// Machine consumes transport events and maintains the client's belief about
// the session. All mutations happen on the transport's dispatch goroutine
// (plus the countdown timer goroutine, both serialized by the internal lock);
// presentation reads copies via Snapshot and the change callbacks.
type Machine struct {
	mu sync.Mutex
	st State

	localName string
	resolver  *Resolver
	cmds      *Commands
	clock     clockwork.Clock

	joinIssued bool
	answered   bool
	startedAt  time.Time
	countdown  clockwork.Timer

	tr   *transport.Transport
	subs map[protocol.EventType]int

	// Presentation callbacks, set before Attach. Each fires outside the lock
	// with a private copy of the state.
	OnPhaseChange           func(State)
	OnConnectionStateChange func(ConnectionState)
	OnServerError           func(string)
}

// NewMachine builds a machine that joins as localName and issues commands
// through sender.
func NewMachine(sender Sender, localName string) *Machine {
	return &Machine{
		localName: localName,
		resolver:  NewResolver(localName),
		cmds:      NewCommands(sender),
		clock:     clockwork.NewRealClock(),
		st:        State{Phase: PhaseJoin},
		subs:      make(map[protocol.EventType]int),
	}
}

// consumedEvents are the types the machine subscribes to. Everything else on
// the channel (reactions, pongs) is presentation-only.
var consumedEvents = []protocol.EventType{
	protocol.EventConnected,
	protocol.EventReconnected,
	protocol.EventDisconnected,
	protocol.EventReconnecting,
	protocol.EventReconnectFailed,
	protocol.EventSessionState,
	protocol.EventJoined,
	protocol.EventPlayerJoined,
	protocol.EventPlayerDisconnected,
	protocol.EventHostAssigned,
	protocol.EventHostDisconnected,
	protocol.EventGameStarted,
	protocol.EventQuestion,
	protocol.EventAnswerReceived,
	protocol.EventQuestionResult,
	protocol.EventAnswerStats,
	protocol.EventGamePaused,
	protocol.EventCountdown,
	protocol.EventGameResumed,
	protocol.EventGameOver,
	protocol.EventError,
}

// Attach subscribes the machine to a transport. The transport instance is
// exclusively owned by this machine from here until Close.
func (m *Machine) Attach(tr *transport.Transport) {
	m.tr = tr
	for _, et := range consumedEvents {
		m.subs[et] = tr.On(et, m.handle)
	}
}

// Close cancels the countdown and detaches from the transport.
func (m *Machine) Close() {
	m.mu.Lock()
	m.cancelCountdownLocked()
	m.mu.Unlock()

	if m.tr != nil {
		for et, id := range m.subs {
			m.tr.Off(et, id)
		}
	}
}

// Snapshot returns a consistent copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.clone()
}

// handle applies one event. This is the single entry point for all state
// transitions.
func (m *Machine) handle(ev protocol.Event) {
	payload, err := protocol.ParsePayload(ev)
	if err != nil {
		log.Warn().Err(err).Str("event_type", string(ev.Type)).Msg("discarding malformed event payload")
		return
	}

	m.mu.Lock()
	phaseBefore := m.st.Phase
	connBefore := m.st.Connection
	var serverErr string
	var joinName string

	switch ev.Type {
	case protocol.EventConnected:
		m.st.Connection = ConnectionState{Connected: true}
		if !m.joinIssued {
			m.joinIssued = true
			joinName = m.localName
		}

	case protocol.EventReconnected:
		// The server associates players with sockets, so a fresh socket
		// must re-run the join handshake under the original name.
		if m.joinIssued {
			joinName = m.localName
		}

	case protocol.EventDisconnected:
		m.st.Connection.Connected = false

	case protocol.EventReconnecting:
		p := payload.(protocol.ReconnectingPayload)
		m.st.Connection = ConnectionState{
			Reconnecting: true,
			Attempt:      p.Attempt,
			MaxAttempts:  p.MaxAttempts,
		}

	case protocol.EventReconnectFailed:
		m.st.Connection = ConnectionState{Failed: true}

	case protocol.EventSessionState:
		p := payload.(protocol.SessionStatePayload)
		m.st.SessionPhase = p.State
		m.st.SessionCode = p.Code
		m.st.QuizTitle = p.QuizTitle
		m.st.Players = p.Players
		if m.resolver.IDKnown() {
			for i := range p.Players {
				if m.resolver.IsMe(p.Players[i]) {
					me := p.Players[i]
					m.st.MyPlayer = &me
					m.st.IsHost = me.IsHost
					break
				}
			}
		}

	case protocol.EventJoined:
		p := payload.(protocol.JoinedPayload)
		m.learnSelfLocked(p.Player)

	case protocol.EventPlayerJoined:
		p := payload.(protocol.PlayerJoinedPayload)
		if !m.resolver.IsMe(p.Player) {
			break // another participant's join
		}
		m.learnSelfLocked(p.Player)

	case protocol.EventPlayerDisconnected:
		p := payload.(protocol.PlayerDisconnectedPayload)
		if p.Player != nil {
			for i := range m.st.Players {
				if m.st.Players[i].ID == p.Player.ID {
					m.st.Players[i].Connected = false
				}
			}
		}

	case protocol.EventHostAssigned:
		p := payload.(protocol.HostAssignedPayload)
		if m.resolver.IsMe(p.Player) {
			m.st.IsHost = true
			if m.st.MyPlayer != nil {
				m.st.MyPlayer.IsHost = true
			}
			log.Info().Str("player", p.Player.Name).Msg("became host")
		} else if m.st.IsHost {
			// host migrated to someone else; only this event revokes it
			m.st.IsHost = false
			if m.st.MyPlayer != nil {
				m.st.MyPlayer.IsHost = false
			}
		}

	case protocol.EventHostDisconnected:
		m.st.Paused = true

	case protocol.EventGameStarted:
		if m.st.Phase == PhaseFinal {
			break
		}
		m.st.Phase = PhaseQuestion
		m.st.SessionPhase = protocol.SessionRunning

	case protocol.EventQuestion:
		p := payload.(protocol.QuestionPayload)
		if m.st.Phase == PhaseFinal {
			log.Debug().Str("question", p.Question.UUID.String()).Msg("ignoring question after game over")
			break
		}
		q := p.Question
		m.st.CurrentQuestion = &q
		m.st.LastResult = nil
		m.st.AnswerStats = nil
		m.st.Paused = false
		m.st.Countdown = 0
		m.st.Phase = PhaseQuestion
		m.armCountdownLocked(q)

	case protocol.EventAnswerReceived:
		if m.st.CurrentQuestion == nil {
			break // no question was active, nothing to attribute this to
		}
		p := payload.(protocol.AnswerReceivedPayload)
		if m.st.LastResult == nil {
			m.st.LastResult = &RoundResult{}
		}
		m.st.LastResult.IsCorrect = p.IsCorrect
		m.st.LastResult.PointsEarned = p.PointsEarned
		m.st.LastResult.Reply = p.Reply
		m.st.Phase = PhaseResult
		m.answered = true
		m.cancelCountdownLocked()

	case protocol.EventQuestionResult:
		if m.st.CurrentQuestion == nil {
			break
		}
		p := payload.(protocol.QuestionResultPayload)
		if m.st.LastResult == nil {
			m.st.LastResult = &RoundResult{}
		}
		q := p.Question
		m.st.LastResult.Question = &q
		m.st.LastResult.Leaderboard = p.Leaderboard
		m.st.Phase = PhaseResult
		m.cancelCountdownLocked()

	case protocol.EventAnswerStats:
		p := payload.(protocol.AnswerStatsPayload)
		m.st.AnswerStats = &p

	case protocol.EventGamePaused:
		m.st.Paused = true
		m.st.SessionPhase = protocol.SessionPaused

	case protocol.EventCountdown:
		p := payload.(protocol.CountdownPayload)
		m.st.Countdown = p.Count

	case protocol.EventGameResumed:
		m.st.Paused = false
		m.st.Countdown = 0
		m.st.SessionPhase = protocol.SessionRunning

	case protocol.EventGameOver:
		if m.st.Phase == PhaseFinal {
			break
		}
		p := payload.(protocol.GameOverPayload)
		m.st.Leaderboard = p.Leaderboard
		m.st.Awards = p.Awards
		m.st.Phase = PhaseFinal
		m.st.SessionPhase = protocol.SessionFinished
		m.st.Paused = false
		m.cancelCountdownLocked()

	case protocol.EventError:
		p := payload.(protocol.ErrorPayload)
		serverErr = p.Message
		log.Warn().Str("message", p.Message).Msg("server error")
	}

	phaseAfter := m.st.Phase
	connAfter := m.st.Connection
	var snap State
	if phaseAfter != phaseBefore && m.OnPhaseChange != nil {
		snap = m.st.clone()
	}
	m.mu.Unlock()

	if joinName != "" {
		if err := m.cmds.Join(joinName); err != nil {
			log.Warn().Err(err).Msg("join command not delivered")
		}
	}
	if phaseAfter != phaseBefore && m.OnPhaseChange != nil {
		m.OnPhaseChange(snap)
	}
	if connAfter != connBefore && m.OnConnectionStateChange != nil {
		m.OnConnectionStateChange(connAfter)
	}
	if serverErr != "" && m.OnServerError != nil {
		m.OnServerError(serverErr)
	}
}

// learnSelfLocked absorbs a confirmed self player record.
func (m *Machine) learnSelfLocked(p protocol.Player) {
	m.resolver.Learn(p.ID)
	me := p
	m.st.MyPlayer = &me
	m.st.IsHost = p.IsHost
	if p.SessionCode != "" {
		m.st.SessionCode = p.SessionCode
	}
	if m.st.Phase == PhaseJoin {
		m.st.Phase = PhaseWaiting
	}
	log.Info().Int("player_id", p.ID).Str("name", p.Name).Msg("joined session")
}

// Answer submits the clicked choice for the current question. A second call
// for the same question is a no-op: at most one answer command is ever issued
// per question instance, enforced by a one-shot flag rather than by
// re-checking the clock.
func (m *Machine) Answer(choiceID int) error {
	m.mu.Lock()
	if m.st.Phase != PhaseQuestion || m.st.CurrentQuestion == nil {
		m.mu.Unlock()
		log.Warn().Int("choice_id", choiceID).Msg("answer ignored, no active question")
		return ErrNoActiveQuestion
	}
	if m.answered {
		m.mu.Unlock()
		log.Debug().Int("choice_id", choiceID).Msg("answer ignored, already submitted")
		return nil
	}
	m.answered = true
	questionUUID := m.st.CurrentQuestion.UUID
	elapsed := m.clock.Since(m.startedAt).Seconds()
	m.mu.Unlock()

	return m.cmds.Answer(questionUUID, choiceID, elapsed)
}

// BecomeHost claims the host role. Requires a confirmed join.
func (m *Machine) BecomeHost() error {
	m.mu.Lock()
	joined := m.st.MyPlayer != nil
	m.mu.Unlock()
	if !joined {
		log.Warn().Msg("become_host ignored, not joined")
		return ErrNotJoined
	}
	return m.cmds.BecomeHost()
}

// StartGame starts the quiz; host only.
func (m *Machine) StartGame() error { return m.hostCommand("start_game", m.cmds.StartGame) }

// PauseGame pauses the game; host only.
func (m *Machine) PauseGame() error { return m.hostCommand("pause_game", m.cmds.PauseGame) }

// ResumeGame resumes the game; host only.
func (m *Machine) ResumeGame() error { return m.hostCommand("resume_game", m.cmds.ResumeGame) }

// SkipQuestion skips the current question; host only.
func (m *Machine) SkipQuestion() error { return m.hostCommand("skip_question", m.cmds.SkipQuestion) }

// NextQuestion advances to the next question; host only.
func (m *Machine) NextQuestion() error { return m.hostCommand("next_question", m.cmds.NextQuestion) }

// EndGame finishes the game early; host only.
func (m *Machine) EndGame() error { return m.hostCommand("end_game", m.cmds.EndGame) }

// Reaction broadcasts an emoji; any participant may send one.
func (m *Machine) Reaction(emoji string) error { return m.cmds.Reaction(emoji) }

func (m *Machine) hostCommand(name string, send func() error) error {
	m.mu.Lock()
	isHost := m.st.IsHost
	m.mu.Unlock()
	if !isHost {
		log.Warn().Str("command", name).Msg("host command ignored, not host")
		return ErrNotHost
	}
	return send()
}
