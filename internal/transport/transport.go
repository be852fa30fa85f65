// Package transport maintains one logical WebSocket connection per session
// code and presents a reliable-looking, typed event stream on top of it:
// connect, heartbeat, reconnect with capped exponential backoff, and ordered
// publish/subscribe dispatch of decoded frames.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pdtechteam/partyquiz/internal/protocol"
)

// ErrNotConnected is returned by Send when the socket is not open. Sends are
// dropped, never queued; callers that need delivery re-issue after the
// reconnected event.
var ErrNotConnected = errors.New("transport: not connected")

// Handler receives one decoded event. Handlers for the same event type run in
// registration order, always on the transport's dispatch goroutine.
type Handler func(protocol.Event)

type subscription struct {
	id int
	fn Handler
}

// Transport owns the socket lifecycle for one session. All reads happen
// inline in a single manager goroutine, so events are dispatched in exactly
// the order the server sent them and a superseded socket can never deliver a
// frame after its replacement's connected event.
type Transport struct {
	url   string
	cfg   Config
	clock clockwork.Clock
	dial  DialFunc

	mu            sync.Mutex
	conn          Conn
	running       bool
	intentional   bool
	everConnected bool
	closeCh       chan struct{}

	writeMu sync.Mutex

	handlersMu sync.RWMutex
	handlers   map[protocol.EventType][]subscription
	nextSubID  int
}

// New creates a transport for the given ws:// or wss:// session endpoint.
func New(url string, cfg Config) *Transport {
	return &Transport{
		url:      url,
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
		dial:     defaultDial(cfg.HandshakeTimeout),
		handlers: make(map[protocol.EventType][]subscription),
	}
}

// On registers a handler for one event type and returns a token for Off.
func (t *Transport) On(eventType protocol.EventType, fn Handler) int {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()

	t.nextSubID++
	t.handlers[eventType] = append(t.handlers[eventType], subscription{id: t.nextSubID, fn: fn})
	return t.nextSubID
}

// Off removes a previously registered handler.
func (t *Transport) Off(eventType protocol.EventType, id int) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()

	subs := t.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			t.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Connect starts the connection lifecycle. It is a no-op if a lifecycle is
// already running. Progress is reported through connected / reconnecting /
// reconnect_failed events, not a return value: the first dial is retried with
// the same backoff as any later drop.
func (t *Transport) Connect(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		log.Debug().Str("url", t.url).Msg("connect ignored, lifecycle already running")
		return
	}
	t.running = true
	t.intentional = false
	t.closeCh = make(chan struct{})
	t.mu.Unlock()

	go t.run(ctx)
}

// Disconnect closes the socket intentionally. An intentional close suppresses
// the automatic reconnect sequence; a later Connect starts a fresh lifecycle.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	if !t.running || t.intentional {
		t.mu.Unlock()
		return
	}
	t.intentional = true
	conn := t.conn
	closeCh := t.closeCh
	t.mu.Unlock()

	if closeCh != nil {
		close(closeCh)
	}
	if conn != nil {
		t.writeMu.Lock()
		_ = conn.SetWriteDeadline(t.clock.Now().Add(t.cfg.WriteTimeout))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		t.writeMu.Unlock()
		_ = conn.Close()
	}
	log.Info().Str("url", t.url).Msg("transport disconnected intentionally")
}

// Send serializes {type, ...payload} onto the wire. If the socket is not open
// the message is dropped with a warning and ErrNotConnected; it is never
// queued.
func (t *Transport) Send(msgType protocol.MessageType, payload interface{}) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		log.Warn().Str("message_type", string(msgType)).Msg("dropping send, socket not open")
		return ErrNotConnected
	}

	frame, err := protocol.EncodeMessage(msgType, payload)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_ = conn.SetWriteDeadline(t.clock.Now().Add(t.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Warn().Err(err).Str("message_type", string(msgType)).Msg("write failed")
		return err
	}
	return nil
}

// Connected reports whether the socket is currently open.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// run is the manager goroutine: dial, read until close, back off, repeat.
func (t *Transport) run(ctx context.Context) {
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	attempt := 0
	for {
		if t.closing() {
			return
		}

		conn, err := t.dial(ctx, t.url)
		if err == nil {
			attempt = 0
			reconnection := t.install(conn)

			stopHeartbeat := make(chan struct{})
			go t.heartbeat(stopHeartbeat)

			log.Info().Str("url", t.url).Bool("reconnection", reconnection).Msg("socket connected")
			t.emit(protocol.EventConnected, nil)
			if reconnection {
				t.emit(protocol.EventReconnected, nil)
			}

			readErr := t.readLoop(conn)
			close(stopHeartbeat)
			t.teardown(conn)
			t.emit(protocol.EventDisconnected, nil)

			if t.closing() {
				return
			}
			log.Warn().Err(readErr).Str("url", t.url).Msg("socket closed unexpectedly")
		} else {
			log.Warn().Err(err).Str("url", t.url).Msg("dial failed")
		}

		attempt++
		if attempt > t.cfg.MaxReconnectAttempts {
			log.Error().
				Int("max_attempts", t.cfg.MaxReconnectAttempts).
				Str("url", t.url).
				Msg("reconnect attempts exhausted")
			t.emit(protocol.EventReconnectFailed, nil)
			return
		}

		delay := backoffDelay(attempt, t.cfg.BackoffBase, t.cfg.BackoffCap)
		log.Info().
			Int("attempt", attempt).
			Int("max_attempts", t.cfg.MaxReconnectAttempts).
			Dur("delay", delay).
			Msg("reconnecting")
		t.emit(protocol.EventReconnecting, protocol.ReconnectingPayload{
			Attempt:     attempt,
			MaxAttempts: t.cfg.MaxReconnectAttempts,
		})

		select {
		case <-t.clock.After(delay):
		case <-t.closeChan():
			return
		case <-ctx.Done():
			return
		}
	}
}

// readLoop reads frames until the socket errors. Running it inline in the
// manager goroutine is what guarantees dispatch order.
func (t *Transport) readLoop(conn Conn) error {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		ev, err := protocol.Decode(frame)
		if err != nil {
			log.Warn().Err(err).Msg("discarding undecodable frame")
			continue
		}
		t.dispatch(ev)
	}
}

// heartbeat sends a ping on a fixed interval while the socket is open. The
// ping elicits no required reply; a pong that does arrive is dispatched like
// any other event.
func (t *Transport) heartbeat(stop <-chan struct{}) {
	ticker := t.clock.NewTicker(t.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if err := t.Send(protocol.MsgPing, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// install publishes the new socket and reports whether this connection
// re-establishes a previously live one.
func (t *Transport) install(conn Conn) (reconnection bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conn = conn
	reconnection = t.everConnected
	t.everConnected = true
	return reconnection
}

func (t *Transport) teardown(conn Conn) {
	_ = conn.Close()
	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.mu.Unlock()
}

func (t *Transport) closing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.intentional
}

func (t *Transport) closeChan() chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeCh
}

// emit dispatches a locally generated lifecycle event.
func (t *Transport) emit(eventType protocol.EventType, payload interface{}) {
	fields := map[string]interface{}{}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			_ = json.Unmarshal(raw, &fields)
		}
	}
	fields["type"] = string(eventType)
	data, _ := json.Marshal(fields)
	t.dispatch(protocol.Event{Type: eventType, Data: data})
}

// dispatch invokes the registered handlers in registration order. Event types
// nobody registered for are silently ignored.
func (t *Transport) dispatch(ev protocol.Event) {
	t.handlersMu.RLock()
	subs := make([]subscription, len(t.handlers[ev.Type]))
	copy(subs, t.handlers[ev.Type])
	t.handlersMu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// backoffDelay is the wait before reconnect attempt n: min(base << n, cap).
func backoffDelay(attempt int, base, cap time.Duration) time.Duration {
	d := base << uint(attempt)
	if d <= 0 || d > cap {
		return cap
	}
	return d
}
