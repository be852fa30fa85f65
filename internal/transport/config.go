package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Config holds tuning for one session connection.
type Config struct {
	// HeartbeatInterval is how often a ping frame is sent while connected.
	// The ping carries no session semantics; it only keeps idle proxies from
	// closing the socket.
	HeartbeatInterval time.Duration

	// BackoffBase and BackoffCap bound the reconnect delay: the wait before
	// attempt n is min(BackoffBase << n, BackoffCap).
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// MaxReconnectAttempts is how many automatic reconnects are tried per
	// failure episode before giving up for good.
	MaxReconnectAttempts int

	WriteTimeout     time.Duration
	HandshakeTimeout time.Duration
}

// DefaultConfig returns the connection tuning used in production.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval:    5 * time.Second,
		BackoffBase:          time.Second,
		BackoffCap:           10 * time.Second,
		MaxReconnectAttempts: 5,
		WriteTimeout:         10 * time.Second,
		HandshakeTimeout:     10 * time.Second,
	}
}

// Conn is the socket surface the transport drives. *websocket.Conn satisfies
// it; tests substitute a scripted connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// DialFunc opens one socket to the session endpoint.
type DialFunc func(ctx context.Context, url string) (Conn, error)

func defaultDial(handshakeTimeout time.Duration) DialFunc {
	dialer := &websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}
	return func(ctx context.Context, url string) (Conn, error) {
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}
