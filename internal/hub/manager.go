package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mfeldt/recall-stream/internal/backoff"
	"github.com/mfeldt/recall-stream/internal/router"
	"github.com/mfeldt/recall-stream/internal/state"
	"github.com/mfeldt/recall-stream/internal/stream"
)

// ManagerConfig configures the connection manager.
type ManagerConfig struct {
	Stream  stream.Config  // Token is overridden with the active credential
	Backoff backoff.Policy // Zero value falls back to backoff.Default
	Dial    stream.Dialer  // nil uses stream.NewSSEClient

	// HasDemand reports whether any subscriber still wants the stream.
	// Consulted on transport errors to decide between retrying and going
	// quietly Disconnected.
	HasDemand func() bool

	// Lifecycle notifications, invoked outside manager locks.
	OnOpen         func()
	OnError        func(error)
	OnReconnecting func(attempt int, delay time.Duration)
}

// conn bundles one physical connection with its pump-stop signal.
type conn struct {
	client stream.Client
	quit   chan struct{}
}

// Manager owns the single physical stream connection.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger
	router *router.Router
	store  *state.Store

	mu         sync.Mutex
	conn       *conn
	credential string
	attempt    int
	retryTimer *time.Timer
	gen        uint64 // bumped whenever the current connection is superseded
}

// NewManager creates a connection manager wired to the given router and
// state store.
func NewManager(cfg ManagerConfig, r *router.Router, store *state.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dial == nil {
		cfg.Dial = stream.NewSSEClient
	}
	if cfg.Backoff == (backoff.Policy{}) {
		cfg.Backoff = backoff.Default
	}
	return &Manager{
		cfg:    cfg,
		logger: logger,
		router: r,
		store:  store,
	}
}

// EnsureConnected opens a connection for the credential if none exists.
// Same credential while a connection (or scheduled retry) exists: no-op.
// Different credential: the old connection is closed gracefully and a new
// one opened, superseding any in-flight retry.
func (m *Manager) EnsureConnected(credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.credential == credential {
		if m.conn != nil {
			return
		}
		if m.retryTimer != nil {
			// A retry is already scheduled for this credential.
			return
		}
	}

	if m.credential != credential {
		if m.conn != nil {
			m.logger.Info("credential changed, reconnecting")
		}
		m.closeConnLocked()
		m.cancelRetryLocked()
		m.attempt = 0
	}

	m.credential = credential
	m.openLocked()
}

// Teardown cancels any pending retry, closes the connection if open, and
// resets credential and attempt counter.
func (m *Manager) Teardown() {
	m.mu.Lock()
	m.cancelRetryLocked()
	m.closeConnLocked()
	m.gen++ // invalidate in-flight connects
	m.credential = ""
	m.attempt = 0
	m.store.SetCredential("")
	m.store.SetStatus(state.StatusDisconnected, 0)
	m.mu.Unlock()

	m.logger.Info("stream torn down")
}

// IsConnected reports whether a live connection exists.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil && m.conn.client.IsConnected()
}

// openLocked dials a new connection for the current credential. Caller
// holds m.mu.
func (m *Manager) openLocked() {
	m.gen++
	gen := m.gen

	cfg := m.cfg.Stream
	cfg.Token = m.credential

	c := &conn{
		client: m.cfg.Dial(cfg, m.logger),
		quit:   make(chan struct{}),
	}
	m.conn = c

	m.store.SetCredential(m.credential)
	m.store.SetStatus(state.StatusConnecting, m.attempt)

	go m.runConnect(c, gen)
}

// runConnect completes the dial off the caller's goroutine and starts the
// frame pump on success.
func (m *Manager) runConnect(c *conn, gen uint64) {
	err := c.client.Connect(context.Background())

	m.mu.Lock()
	if m.gen != gen {
		// Superseded while dialing
		m.mu.Unlock()
		c.client.Close()
		return
	}

	if err != nil {
		m.logger.Warn("stream connect failed", "error", err)
		m.conn = nil
		attempt, delay, retrying := m.handleFailureLocked()
		m.mu.Unlock()

		m.notifyError(err)
		if retrying {
			m.notifyReconnecting(attempt, delay)
		}
		return
	}

	m.attempt = 0
	m.store.SetStatus(state.StatusConnected, 0)
	m.mu.Unlock()

	m.logger.Info("stream connected")
	m.notifyOpen()

	go m.pump(c, gen)
}

// pump moves frames from the connection into the router until the
// connection dies or is superseded.
func (m *Manager) pump(c *conn, gen uint64) {
	for {
		select {
		case <-c.quit:
			return

		case frame := <-c.client.Frames():
			m.router.DispatchRaw(frame.Data, frame.ReceivedAt)

		case err := <-c.client.Errors():
			m.handleTransportError(c, gen, err)
			return
		}
	}
}

// handleTransportError reacts to a dead connection: retry with backoff
// while demand remains, otherwise settle into Disconnected.
func (m *Manager) handleTransportError(c *conn, gen uint64, err error) {
	m.logger.Warn("stream connection lost", "error", err)

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.closeConnLocked()
	attempt, delay, retrying := m.handleFailureLocked()
	m.mu.Unlock()

	m.notifyError(err)
	if retrying {
		m.notifyReconnecting(attempt, delay)
	}
}

// handleFailureLocked schedules a retry if demand remains. Returns the
// attempt number and delay of the scheduled retry. Caller holds m.mu.
func (m *Manager) handleFailureLocked() (attempt int, delay time.Duration, retrying bool) {
	if m.cfg.HasDemand != nil && !m.cfg.HasDemand() {
		m.store.SetStatus(state.StatusDisconnected, 0)
		return 0, 0, false
	}

	delay = m.cfg.Backoff.Delay(m.attempt)
	m.attempt++
	attempt = m.attempt
	m.store.SetStatus(state.StatusReconnecting, attempt)

	gen := m.gen
	m.retryTimer = time.AfterFunc(delay, func() {
		m.retry(gen)
	})

	m.logger.Info("reconnect scheduled",
		"attempt", attempt,
		"delay", delay,
	)
	return attempt, delay, true
}

// retry fires from the backoff timer. A teardown or credential change in
// the meantime bumps gen and turns this into a no-op.
func (m *Manager) retry(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen || m.retryTimer == nil {
		return
	}
	m.retryTimer = nil
	m.openLocked()
}

// closeConnLocked stops the pump and closes the client. Caller holds m.mu.
func (m *Manager) closeConnLocked() {
	if m.conn == nil {
		return
	}
	close(m.conn.quit)
	m.conn.client.Close()
	m.conn = nil
}

// cancelRetryLocked cancels a pending retry timer. Caller holds m.mu.
func (m *Manager) cancelRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

func (m *Manager) notifyOpen() {
	if m.cfg.OnOpen != nil {
		m.cfg.OnOpen()
	}
}

func (m *Manager) notifyError(err error) {
	if m.cfg.OnError != nil {
		m.cfg.OnError(err)
	}
}

func (m *Manager) notifyReconnecting(attempt int, delay time.Duration) {
	if m.cfg.OnReconnecting != nil {
		m.cfg.OnReconnecting(attempt, delay)
	}
}
