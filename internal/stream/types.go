package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Errors
var (
	ErrAlreadyClosed   = errors.New("already closed")
	ErrStaleConnection = errors.New("connection stale (no data)")
	ErrBadStatus       = errors.New("unexpected http status")
)

// Frame wraps one raw frame body with its receive timestamp.
type Frame struct {
	Data       []byte    // Raw frame body (JSON)
	ReceivedAt time.Time // Local timestamp when the frame was read
}

// Client is a single physical connection to the stream endpoint.
type Client interface {
	// Connect establishes the connection. It returns once the stream is
	// open; frames then arrive on Frames.
	Connect(ctx context.Context) error

	// Close tears the connection down. Safe to call more than once.
	Close() error

	// Frames returns the channel of raw frames.
	Frames() <-chan Frame

	// Errors returns the channel of transport errors. An error means the
	// connection is gone; the owner decides whether to redial.
	Errors() <-chan error

	// IsConnected reports current connection state.
	IsConnected() bool
}

// Config configures a stream client.
type Config struct {
	URL              string        // Stream endpoint (e.g. https://host/api/v1/events)
	Token            string        // Credential, sent as ?token=
	HandshakeTimeout time.Duration // Dial/connect timeout
	StaleTimeout     time.Duration // Max silence before the connection is considered dead
	BufferSize       int           // Frame channel buffer size
	HTTPClient       *http.Client  // SSE only; nil uses http.DefaultClient
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		StaleTimeout:     90 * time.Second,
		BufferSize:       1000,
	}
}

// Dialer constructs a stream client. The hub takes one so tests can inject
// doubles and callers can pick the transport.
type Dialer func(cfg Config, logger *slog.Logger) Client
