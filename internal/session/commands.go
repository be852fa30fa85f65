package session

import (
	"github.com/google/uuid"

	"github.com/pdtechteam/partyquiz/internal/protocol"
)

// Sender puts one typed message on the wire. *transport.Transport satisfies
// it; tests substitute a recorder.
type Sender interface {
	Send(msgType protocol.MessageType, payload interface{}) error
}

// Commands is the typed surface for every intent a client can express.
// It is a stateless 1:1 mapping onto wire message types: deciding when a
// command is legal to issue is the machine's job, and every command is
// fire-and-forget — the next authoritative server event is the only
// acknowledgement.
type Commands struct {
	sender Sender
}

// NewCommands wraps a sender in the command façade.
func NewCommands(sender Sender) *Commands {
	return &Commands{sender: sender}
}

// Join asks the server to create, or re-associate with, a player of this name.
func (c *Commands) Join(playerName string) error {
	return c.sender.Send(protocol.MsgJoin, protocol.JoinMessage{PlayerName: playerName})
}

// Answer submits one answer for one question instance.
func (c *Commands) Answer(questionUUID uuid.UUID, choiceID int, timeTaken float64) error {
	return c.sender.Send(protocol.MsgAnswer, protocol.AnswerMessage{
		QuestionUUID: questionUUID,
		ChoiceID:     choiceID,
		TimeTaken:    timeTaken,
	})
}

// BecomeHost claims the host role if the session has none.
func (c *Commands) BecomeHost() error {
	return c.sender.Send(protocol.MsgBecomeHost, nil)
}

// StartGame starts the quiz. Host only; the server enforces it.
func (c *Commands) StartGame() error {
	return c.sender.Send(protocol.MsgStartGame, nil)
}

// PauseGame pauses the running game. Host only.
func (c *Commands) PauseGame() error {
	return c.sender.Send(protocol.MsgPauseGame, nil)
}

// ResumeGame resumes a paused game. Host only.
func (c *Commands) ResumeGame() error {
	return c.sender.Send(protocol.MsgResumeGame, nil)
}

// SkipQuestion abandons the current question without scoring. Host only.
func (c *Commands) SkipQuestion() error {
	return c.sender.Send(protocol.MsgSkipQuestion, nil)
}

// NextQuestion advances to the next question. Host only.
func (c *Commands) NextQuestion() error {
	return c.sender.Send(protocol.MsgNextQuestion, nil)
}

// EndGame finishes the game early. Host only.
func (c *Commands) EndGame() error {
	return c.sender.Send(protocol.MsgEndGame, nil)
}

// Reaction broadcasts an emoji reaction. Rate limiting is server-side.
func (c *Commands) Reaction(emoji string) error {
	return c.sender.Send(protocol.MsgReaction, protocol.ReactionMessage{Emoji: emoji})
}
