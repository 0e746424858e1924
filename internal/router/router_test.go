package router

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func testEnvelope(eventType string) Envelope {
	return Envelope{
		Type:       eventType,
		Payload:    json.RawMessage(`{"x":1}`),
		ReceivedAt: time.Now(),
	}
}

func TestRouter_DispatchToRegisteredType(t *testing.T) {
	r := New(slog.Default())

	var got []string
	r.Register("job:completed", func(payload json.RawMessage) {
		got = append(got, string(payload))
	})

	r.Dispatch(testEnvelope("job:completed"))

	if len(got) != 1 {
		t.Fatalf("listener invoked %d times, want 1", len(got))
	}
	if got[0] != `{"x":1}` {
		t.Errorf("payload = %s, want {\"x\":1}", got[0])
	}
}

func TestRouter_OtherTypeNotInvoked(t *testing.T) {
	r := New(slog.Default())

	invoked := false
	r.Register("job:completed", func(json.RawMessage) { invoked = true })

	r.Dispatch(testEnvelope("job:failed"))

	if invoked {
		t.Error("job:completed listener invoked for job:failed frame")
	}
}

func TestRouter_NoListenersDropsSilently(t *testing.T) {
	r := New(slog.Default())

	r.Dispatch(testEnvelope("heartbeat"))

	stats := r.Stats()
	if stats.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", stats.Dropped)
	}
	if stats.Dispatched != 0 {
		t.Errorf("Dispatched = %d, want 0", stats.Dispatched)
	}
}

func TestRouter_TwoListenersBothInvokedOnce(t *testing.T) {
	r := New(slog.Default())

	countA, countB := 0, 0
	r.Register("heartbeat", func(json.RawMessage) { countA++ })
	r.Register("heartbeat", func(json.RawMessage) { countB++ })

	r.Dispatch(testEnvelope("heartbeat"))

	if countA != 1 || countB != 1 {
		t.Errorf("invocations = %d, %d, want 1, 1", countA, countB)
	}
}

func TestRouter_PanickingListenerIsolated(t *testing.T) {
	r := New(slog.Default())

	var xCalls, yCalls int
	r.Register("x", func(json.RawMessage) { panic("consumer bug") })
	r.Register("x", func(json.RawMessage) { xCalls++ })
	r.Register("y", func(json.RawMessage) { yCalls++ })

	// Subsequent frames after the panic must still be delivered everywhere.
	r.Dispatch(testEnvelope("x"))
	r.Dispatch(testEnvelope("x"))
	r.Dispatch(testEnvelope("y"))

	if xCalls != 2 {
		t.Errorf("second x listener invoked %d times, want 2", xCalls)
	}
	if yCalls != 1 {
		t.Errorf("y listener invoked %d times, want 1", yCalls)
	}
	if got := r.Stats().PanicsCaught; got != 2 {
		t.Errorf("PanicsCaught = %d, want 2", got)
	}
}

func TestRouter_UnregisterStopsDelivery(t *testing.T) {
	r := New(slog.Default())

	count := 0
	id := r.Register("heartbeat", func(json.RawMessage) { count++ })

	r.Dispatch(testEnvelope("heartbeat"))
	r.Unregister("heartbeat", id)
	r.Dispatch(testEnvelope("heartbeat"))

	if count != 1 {
		t.Errorf("listener invoked %d times, want 1", count)
	}
	if r.ListenerCount("heartbeat") != 0 {
		t.Errorf("ListenerCount = %d, want 0", r.ListenerCount("heartbeat"))
	}
}

func TestRouter_UnregisterAbsentIsNoOp(t *testing.T) {
	r := New(slog.Default())

	id := r.Register("heartbeat", func(json.RawMessage) {})
	r.Unregister("heartbeat", id)
	r.Unregister("heartbeat", id) // second removal: no-op
	r.Unregister("job:log", id)   // wrong type: no-op
}

func TestRouter_DispatchRawMalformedDropped(t *testing.T) {
	r := New(slog.Default())

	invoked := false
	r.Register("heartbeat", func(json.RawMessage) { invoked = true })

	r.DispatchRaw([]byte(`{broken`), time.Now())
	r.DispatchRaw([]byte(`{"type":"heartbeat"}`), time.Now())

	if !invoked {
		t.Error("valid frame after malformed frame was not delivered")
	}
	if got := r.Stats().DecodeFails; got != 1 {
		t.Errorf("DecodeFails = %d, want 1", got)
	}
}

func TestRouter_PerTypeOrderPreserved(t *testing.T) {
	r := New(slog.Default())

	var seen []string
	r.Register("job:log", func(payload json.RawMessage) {
		seen = append(seen, string(payload))
	})

	for i := 0; i < 5; i++ {
		r.Dispatch(Envelope{
			Type:       "job:log",
			Payload:    json.RawMessage{byte('0' + i)},
			ReceivedAt: time.Now(),
		})
	}

	for i, s := range seen {
		if s != string(rune('0'+i)) {
			t.Fatalf("out of order at %d: got %q", i, s)
		}
	}
}
