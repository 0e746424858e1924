package router

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listener receives the payload of an event it registered for. Listeners
// run on the dispatch goroutine; slow consumers should hand off to their
// own goroutine.
type Listener func(payload json.RawMessage)

// ListenerID identifies one registration for later removal. Function values
// are not comparable, so Register hands back an opaque handle instead.
type ListenerID = uuid.UUID

// registration pairs a listener with its handle.
type registration struct {
	id ListenerID
	fn Listener
}

// Router maps event types to listener sets and dispatches envelopes.
type Router struct {
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[string][]registration

	// Stats
	dispatched  int64
	dropped     int64
	panics      int64
	decodeFails int64
}

// Stats contains runtime dispatch counters.
type Stats struct {
	Dispatched   int64 // envelopes delivered to at least one listener
	Dropped      int64 // envelopes with no interested listeners
	PanicsCaught int64
	DecodeFails  int64
}

// New creates a Router.
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:    logger,
		listeners: make(map[string][]registration),
	}
}

// Register adds a listener for an event type and returns its handle.
func (r *Router) Register(eventType string, fn Listener) ListenerID {
	id := uuid.New()

	r.mu.Lock()
	r.listeners[eventType] = append(r.listeners[eventType], registration{id: id, fn: fn})
	r.mu.Unlock()

	return id
}

// Unregister removes a listener by handle. Removing an absent listener is a
// no-op.
func (r *Router) Unregister(eventType string, id ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.listeners[eventType]
	for i, reg := range regs {
		if reg.id == id {
			r.listeners[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(r.listeners[eventType]) == 0 {
		delete(r.listeners, eventType)
	}
}

// ListenerCount returns the number of listeners for an event type.
func (r *Router) ListenerCount(eventType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[eventType])
}

// Dispatch delivers an envelope to every listener registered for its type.
// Absence of listeners is normal, not an error. A panicking listener is
// logged and does not prevent the remaining listeners from running.
func (r *Router) Dispatch(env Envelope) {
	r.mu.RLock()
	regs := make([]registration, len(r.listeners[env.Type]))
	copy(regs, r.listeners[env.Type])
	r.mu.RUnlock()

	if len(regs) == 0 {
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		return
	}

	for _, reg := range regs {
		r.invoke(env, reg.fn)
	}

	r.mu.Lock()
	r.dispatched++
	r.mu.Unlock()
}

// DispatchRaw decodes a raw frame body and dispatches it. Malformed frames
// are logged and dropped; they never affect the connection or later frames.
func (r *Router) DispatchRaw(body []byte, receivedAt time.Time) {
	decoded, err := Decode(body, receivedAt)
	if err != nil {
		r.logger.Warn("dropping malformed frame", "error", err)
		r.mu.Lock()
		r.decodeFails++
		r.mu.Unlock()
		return
	}
	r.Dispatch(decoded)
}

// invoke runs one listener with panic isolation.
func (r *Router) invoke(env Envelope, fn Listener) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("listener panicked",
				"event_type", env.Type,
				"panic", rec,
			)
			r.mu.Lock()
			r.panics++
			r.mu.Unlock()
		}
	}()

	fn(env.Payload)
}

// Stats returns current dispatch counters.
func (r *Router) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Dispatched:   r.dispatched,
		Dropped:      r.dropped,
		PanicsCaught: r.panics,
		DecodeFails:  r.decodeFails,
	}
}
