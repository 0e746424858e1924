package state

import "sync"

// LogBuffer is a thread-safe fixed-capacity ring of log entries. Appends
// past capacity evict the oldest entry (FIFO).
type LogBuffer struct {
	mu       sync.Mutex
	buf      []LogEntry
	head     int // oldest entry
	count    int
	capacity int
}

// NewLogBuffer creates a ring with the given capacity.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{
		buf:      make([]LogEntry, capacity),
		capacity: capacity,
	}
}

// Append adds an entry, evicting the oldest if the ring is full.
func (b *LogBuffer) Append(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tail := (b.head + b.count) % b.capacity
	b.buf[tail] = entry

	if b.count == b.capacity {
		// Full: overwrote the oldest, advance head
		b.head = (b.head + 1) % b.capacity
	} else {
		b.count++
	}
}

// Entries returns a copy of the ring contents, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]LogEntry, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.buf[(b.head+i)%b.capacity]
	}
	return out
}

// Len returns the current number of entries.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the fixed capacity.
func (b *LogBuffer) Cap() int {
	return b.capacity
}

// Clear empties the ring.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}
