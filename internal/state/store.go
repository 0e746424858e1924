package state

import (
	"sync"
	"time"
)

// Status is the connection lifecycle state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// LogEntry is one diagnostic log line kept in the ring.
type LogEntry struct {
	Message    string
	Level      string
	ReceivedAt time.Time
}

// Snapshot is a read-only view of the store for diagnostic observers.
type Snapshot struct {
	Status           Status
	ReconnectAttempt int
	Credential       string
	Log              []LogEntry // oldest first
}

// DefaultLogCapacity bounds the diagnostic log ring.
const DefaultLogCapacity = 150

// Store holds connection state and the diagnostic log ring.
type Store struct {
	mu         sync.RWMutex
	status     Status
	attempt    int
	credential string
	log        *LogBuffer
}

// NewStore creates a store with the given log capacity. Capacity < 1 falls
// back to DefaultLogCapacity.
func NewStore(logCapacity int) *Store {
	if logCapacity < 1 {
		logCapacity = DefaultLogCapacity
	}
	return &Store{
		status: StatusDisconnected,
		log:    NewLogBuffer(logCapacity),
	}
}

// SetStatus overwrites status and reconnect attempt. Callers that transition
// to Connected or Disconnected pass attempt 0.
func (s *Store) SetStatus(status Status, attempt int) {
	s.mu.Lock()
	s.status = status
	s.attempt = attempt
	s.mu.Unlock()
}

// SetCredential records the credential the current connection was opened with.
// Empty string means no active credential.
func (s *Store) SetCredential(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
}

// Status returns the current status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ReconnectAttempt returns the current reconnect attempt counter.
func (s *Store) ReconnectAttempt() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempt
}

// AppendLog appends an entry to the ring, evicting the oldest past capacity.
func (s *Store) AppendLog(entry LogEntry) {
	s.log.Append(entry)
}

// ClearLog empties the ring.
func (s *Store) ClearLog() {
	s.log.Clear()
}

// Snapshot returns a consistent copy of status, attempt, credential and log.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		Status:           s.status,
		ReconnectAttempt: s.attempt,
		Credential:       s.credential,
	}
	s.mu.RUnlock()

	snap.Log = s.log.Entries()
	return snap
}
