package archive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mfeldt/recall-stream/internal/config"
)

func newTestWriter(bufferSize, batchSize int) *Writer {
	return NewWriter(config.ArchiveConfig{
		BatchSize:     batchSize,
		BufferSize:    bufferSize,
		FlushInterval: time.Second,
	}, nil, nil, nil)
}

func TestWriter_EnqueueDropsWhenFull(t *testing.T) {
	w := newTestWriter(2, 100)

	for i := 0; i < 5; i++ {
		w.enqueue("job:log", json.RawMessage(`{"message":"x"}`))
	}

	if got := w.Stats().Dropped; got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
	if got := len(w.input); got != 2 {
		t.Errorf("buffered = %d, want 2", got)
	}
}

func TestWriter_HandleRowAccumulatesBelowBatchSize(t *testing.T) {
	w := newTestWriter(10, 100)

	for i := 0; i < 5; i++ {
		w.handleRow(eventRow{EventType: "heartbeat"})
	}

	w.batchMu.Lock()
	got := len(w.batch)
	w.batchMu.Unlock()
	if got != 5 {
		t.Errorf("batch length = %d, want 5", got)
	}
}

func TestWriter_EnqueueCopiesPayload(t *testing.T) {
	w := newTestWriter(10, 100)

	payload := json.RawMessage(`{"message":"original"}`)
	w.enqueue("job:log", payload)
	copy(payload, []byte(`{"message":"mutated!"}`))

	row := <-w.input
	if string(row.Payload) != `{"message":"original"}` {
		t.Errorf("payload = %s, want the original bytes", row.Payload)
	}
	if row.EventType != "job:log" {
		t.Errorf("event type = %q, want job:log", row.EventType)
	}
	if row.ID == uuid.Nil {
		t.Error("row ID not assigned")
	}
}
