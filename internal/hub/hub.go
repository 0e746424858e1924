package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mfeldt/recall-stream/internal/model"
	"github.com/mfeldt/recall-stream/internal/router"
	"github.com/mfeldt/recall-stream/internal/state"
)

// Options describes one logical subscriber: which event types it wants and
// which connection lifecycle notifications it cares about. All callbacks
// are optional.
type Options struct {
	// Handlers maps event type → callback. Handlers run on the dispatch
	// goroutine in per-type arrival order; hand off to your own goroutine
	// if you need to block.
	Handlers map[string]router.Listener

	// Lifecycle callbacks. Advisory only; failures are already absorbed
	// by the hub.
	OnOpen         func()
	OnError        func(error)
	OnReconnecting func(attempt int, delay time.Duration)

	// Disabled makes Subscribe a no-op that returns an inert handle, so
	// callers can gate subscriptions without branching.
	Disabled bool
}

// Subscription is the handle a subscriber releases when it no longer needs
// the stream. Each handle matches exactly one Unsubscribe; extra calls are
// no-ops.
type Subscription struct {
	hub  *Hub
	id   uuid.UUID
	regs []listenerRef
	opts Options

	released bool // guarded by hub.mu
	inert    bool
}

type listenerRef struct {
	eventType string
	id        router.ListenerID
}

// Unsubscribe releases the subscription. Idempotent.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.inert {
		return
	}
	s.hub.unsubscribe(s)
}

// Config configures a Hub.
type Config struct {
	Manager ManagerConfig

	// Credential is the token the stream opens with. Rotate with
	// SetCredential.
	Credential string

	// LogCapacity bounds the diagnostic log ring. < 1 uses the default.
	LogCapacity int
}

// Hub ref-counts logical subscribers and gates the physical connection's
// existence on demand.
type Hub struct {
	logger  *slog.Logger
	router  *router.Router
	store   *state.Store
	manager *Manager

	count atomic.Int64

	mu         sync.Mutex
	credential string
	subs       map[uuid.UUID]*Subscription
}

// New creates a Hub with its own router, state store and connection
// manager.
func New(cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Hub{
		logger:     logger,
		router:     router.New(logger),
		store:      state.NewStore(cfg.LogCapacity),
		credential: cfg.Credential,
		subs:       make(map[uuid.UUID]*Subscription),
	}

	mgrCfg := cfg.Manager
	mgrCfg.HasDemand = func() bool { return h.count.Load() > 0 }
	mgrCfg.OnOpen = h.fanOpen
	mgrCfg.OnError = h.fanError
	mgrCfg.OnReconnecting = h.fanReconnecting
	h.manager = NewManager(mgrCfg, h.router, h.store, logger)

	// Diagnostic mirror: job:log events feed the bounded log ring so
	// observers can read recent lines without their own subscription.
	h.router.Register(model.EventJobLog, h.mirrorJobLog)

	return h
}

// Subscribe registers the subscriber's handlers and, on the 0→1 demand
// transition, opens the connection. Returns immediately.
func (h *Hub) Subscribe(opts Options) *Subscription {
	if opts.Disabled {
		return &Subscription{inert: true}
	}

	sub := &Subscription{
		hub:  h,
		id:   uuid.New(),
		opts: opts,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for eventType, fn := range opts.Handlers {
		if fn == nil {
			continue
		}
		sub.regs = append(sub.regs, listenerRef{
			eventType: eventType,
			id:        h.router.Register(eventType, fn),
		})
	}
	h.subs[sub.id] = sub

	if h.count.Add(1) == 1 {
		h.manager.EnsureConnected(h.credential)
	}

	return sub
}

// unsubscribe releases a subscription and, on the 1→0 demand transition,
// tears the connection down.
func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.released {
		return
	}
	sub.released = true

	for _, ref := range sub.regs {
		h.router.Unregister(ref.eventType, ref.id)
	}
	delete(h.subs, sub.id)

	if h.count.Add(-1) == 0 {
		h.manager.Teardown()
	}
}

// SetCredential rotates the stream credential. While subscribers exist the
// connection is gracefully reopened under the new token.
func (h *Hub) SetCredential(credential string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.credential == credential {
		return
	}
	h.credential = credential

	if h.count.Load() > 0 {
		h.manager.EnsureConnected(credential)
	}
}

// Snapshot returns the diagnostic view: status, reconnect attempt and the
// recent log ring.
func (h *Hub) Snapshot() state.Snapshot {
	return h.store.Snapshot()
}

// ClearLog empties the diagnostic log ring.
func (h *Hub) ClearLog() {
	h.store.ClearLog()
}

// SubscriberCount returns the current number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	return int(h.count.Load())
}

// RouterStats exposes dispatch counters.
func (h *Hub) RouterStats() router.Stats {
	return h.router.Stats()
}

// mirrorJobLog appends job:log payloads to the diagnostic ring.
func (h *Hub) mirrorJobLog(payload json.RawMessage) {
	var entry model.JobLogEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		h.store.AppendLog(state.LogEntry{
			Message:    string(payload),
			Level:      "info",
			ReceivedAt: time.Now(),
		})
		return
	}

	at := entry.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	h.store.AppendLog(state.LogEntry{
		Message:    entry.Message,
		Level:      entry.Level,
		ReceivedAt: at,
	})
}

// fanOpen invokes every subscriber's OnOpen callback with panic isolation.
func (h *Hub) fanOpen() {
	for _, fn := range h.lifecycleCallbacks(func(o Options) bool { return o.OnOpen != nil }) {
		opts := fn
		h.safely(func() { opts.OnOpen() })
	}
}

func (h *Hub) fanError(err error) {
	for _, fn := range h.lifecycleCallbacks(func(o Options) bool { return o.OnError != nil }) {
		opts := fn
		h.safely(func() { opts.OnError(err) })
	}
}

func (h *Hub) fanReconnecting(attempt int, delay time.Duration) {
	for _, fn := range h.lifecycleCallbacks(func(o Options) bool { return o.OnReconnecting != nil }) {
		opts := fn
		h.safely(func() { opts.OnReconnecting(attempt, delay) })
	}
}

// lifecycleCallbacks snapshots matching subscriber options outside the
// invocation path.
func (h *Hub) lifecycleCallbacks(want func(Options) bool) []Options {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Options
	for _, sub := range h.subs {
		if want(sub.opts) {
			out = append(out, sub.opts)
		}
	}
	return out
}

// safely runs one consumer callback, absorbing panics.
func (h *Hub) safely(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("lifecycle callback panicked", "panic", rec)
		}
	}()
	fn()
}
