package stream

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// sseClient reads a long-lived text/event-stream HTTP response.
type sseClient struct {
	cfg    Config
	logger *slog.Logger

	frames chan Frame
	errors chan error
	done   chan struct{}

	mu        sync.RWMutex
	connected bool
	closed    bool
	cancel    context.CancelFunc
	lastData  time.Time
}

// NewSSEClient creates a client for the SSE stream endpoint.
func NewSSEClient(cfg Config, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &sseClient{
		cfg:    cfg,
		logger: logger,
		frames: make(chan Frame, cfg.BufferSize),
		errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// Connect opens the stream and starts the read loop.
func (c *sseClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	endpoint, err := buildURL(c.cfg.URL, c.cfg.Token, false)
	if err != nil {
		return err
	}

	// The request context governs the whole response body lifetime, so the
	// handshake timeout cannot live on it. A timer cancels the dial if the
	// headers have not arrived in time.
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := c.cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var handshakeTimer *time.Timer
	if c.cfg.HandshakeTimeout > 0 {
		handshakeTimer = time.AfterFunc(c.cfg.HandshakeTimeout, cancel)
	}

	resp, err := httpClient.Do(req)
	if handshakeTimer != nil && !handshakeTimer.Stop() && err == nil {
		// Timer fired between Do returning and Stop: the body is dead.
		resp.Body.Close()
		err = context.DeadlineExceeded
	}
	if err != nil {
		cancel()
		return fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	c.mu.Lock()
	c.connected = true
	c.cancel = cancel
	c.lastData = time.Now()
	c.mu.Unlock()

	go c.readLoop(resp)
	go c.watchdog()

	c.logger.Debug("stream connected", "url", redactToken(endpoint))

	return nil
}

// Close tears down the connection.
func (c *sseClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	cancel := c.cancel
	c.mu.Unlock()

	close(c.done)
	if cancel != nil {
		cancel()
	}
	return nil
}

// Frames returns the frames channel.
func (c *sseClient) Frames() <-chan Frame {
	return c.frames
}

// Errors returns the errors channel.
func (c *sseClient) Errors() <-chan error {
	return c.errors
}

// IsConnected returns the current connection state.
func (c *sseClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// readLoop scans the response body. Each event's data lines are joined and
// emitted as one frame on the dispatch boundary (blank line).
func (c *sseClient) readLoop(resp *http.Response) {
	defer resp.Body.Close()
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var dataLines []string

	for scanner.Scan() {
		select {
		case <-c.done:
			return
		default:
		}

		line := scanner.Text()

		c.mu.Lock()
		c.lastData = time.Now()
		c.mu.Unlock()

		switch {
		case line == "":
			if len(dataLines) > 0 {
				c.emit([]byte(strings.Join(dataLines, "\n")))
				dataLines = dataLines[:0]
			}

		case strings.HasPrefix(line, ":"):
			// keepalive comment

		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))

		default:
			// event:/id:/retry: fields are unused; the frame body carries
			// its own type
		}
	}

	// Stream ended or failed
	select {
	case <-c.done:
		return
	default:
	}

	err := scanner.Err()
	if err == nil {
		err = fmt.Errorf("stream ended")
	}
	select {
	case c.errors <- err:
	default:
	}
}

// emit delivers one frame without blocking the read loop.
func (c *sseClient) emit(data []byte) {
	frame := Frame{
		Data:       data,
		ReceivedAt: time.Now(),
	}
	select {
	case c.frames <- frame:
	case <-c.done:
	default:
		c.logger.Warn("frame buffer full, dropping frame")
	}
}

// watchdog flags a connection that has gone silent past StaleTimeout.
func (c *sseClient) watchdog() {
	if c.cfg.StaleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(c.cfg.StaleTimeout / 3)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.RLock()
			last := c.lastData
			connected := c.connected
			c.mu.RUnlock()

			if !connected {
				return
			}
			if time.Since(last) > c.cfg.StaleTimeout {
				c.logger.Warn("no data received, connection stale",
					"last_data", last,
					"timeout", c.cfg.StaleTimeout,
				)
				c.mu.Lock()
				cancel := c.cancel
				c.mu.Unlock()
				if cancel != nil {
					cancel()
				}
				select {
				case c.errors <- ErrStaleConnection:
				default:
				}
				return
			}
		}
	}
}
