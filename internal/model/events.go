package model

import (
	"time"

	"github.com/google/uuid"
)

// Wire event types. Each is independently routable.
const (
	EventJobStarted   = "job:started"
	EventJobProgress  = "job:progress"
	EventJobCompleted = "job:completed"
	EventJobFailed    = "job:failed"
	EventJobPaused    = "job:paused"
	EventJobResumed   = "job:resumed"
	EventJobLog       = "job:log"

	EventIndexingStarted   = "indexing:started"
	EventIndexingProgress  = "indexing:progress"
	EventIndexingCompleted = "indexing:completed"

	EventProviderAvailable   = "provider:available"
	EventProviderUnavailable = "provider:unavailable"

	EventHealthChanged = "health:changed"
	EventHeartbeat     = "heartbeat"
)

// EventTypes lists every routable wire event type.
var EventTypes = []string{
	EventJobStarted,
	EventJobProgress,
	EventJobCompleted,
	EventJobFailed,
	EventJobPaused,
	EventJobResumed,
	EventJobLog,
	EventIndexingStarted,
	EventIndexingProgress,
	EventIndexingCompleted,
	EventProviderAvailable,
	EventProviderUnavailable,
	EventHealthChanged,
	EventHeartbeat,
}

// JobEvent is the payload for job:* lifecycle events.
type JobEvent struct {
	JobID     uuid.UUID `json:"job_id"`
	ProjectID string    `json:"project_id"`
	Kind      string    `json:"kind"`   // "ingest", "embed", "compact"
	Status    string    `json:"status"` // "queued", "running", "paused", "completed", "failed"
	Progress  float64   `json:"progress,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobLogEntry is the payload for job:log events. These are the only events
// mirrored into the diagnostic log ring.
type JobLogEntry struct {
	JobID     uuid.UUID `json:"job_id"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexingEvent is the payload for indexing:* events.
type IndexingEvent struct {
	ProjectID      string    `json:"project_id"`
	DocumentsTotal int       `json:"documents_total"`
	DocumentsDone  int       `json:"documents_done"`
	StartedAt      time.Time `json:"started_at"`
}

// ProviderEvent is the payload for provider:available / provider:unavailable.
type ProviderEvent struct {
	Provider string `json:"provider"` // e.g. "openai", "ollama"
	Reason   string `json:"reason,omitempty"`
}

// HealthEvent is the payload for health:changed.
type HealthEvent struct {
	Status     string            `json:"status"` // "ok", "degraded", "down"
	Components map[string]string `json:"components,omitempty"`
}

// Heartbeat is the payload for heartbeat events.
type Heartbeat struct {
	ServerTime time.Time `json:"server_time"`
}
