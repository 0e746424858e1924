package state

import (
	"sync"
	"testing"
)

func TestStore_SetStatus(t *testing.T) {
	s := NewStore(0)

	if s.Status() != StatusDisconnected {
		t.Errorf("initial Status() = %v, want disconnected", s.Status())
	}

	s.SetStatus(StatusReconnecting, 3)

	snap := s.Snapshot()
	if snap.Status != StatusReconnecting {
		t.Errorf("Status = %v, want reconnecting", snap.Status)
	}
	if snap.ReconnectAttempt != 3 {
		t.Errorf("ReconnectAttempt = %d, want 3", snap.ReconnectAttempt)
	}

	// Successful connect resets the attempt
	s.SetStatus(StatusConnected, 0)
	if got := s.ReconnectAttempt(); got != 0 {
		t.Errorf("ReconnectAttempt after connect = %d, want 0", got)
	}
}

func TestStore_SnapshotCopiesLog(t *testing.T) {
	s := NewStore(10)
	s.AppendLog(LogEntry{Message: "a"})
	s.AppendLog(LogEntry{Message: "b"})

	snap := s.Snapshot()
	if len(snap.Log) != 2 {
		t.Fatalf("len(snap.Log) = %d, want 2", len(snap.Log))
	}

	// Mutating the store afterwards must not change the snapshot
	s.AppendLog(LogEntry{Message: "c"})
	if len(snap.Log) != 2 {
		t.Errorf("snapshot changed after AppendLog, len = %d", len(snap.Log))
	}
}

func TestStore_Credential(t *testing.T) {
	s := NewStore(0)

	s.SetCredential("tok1")
	if got := s.Snapshot().Credential; got != "tok1" {
		t.Errorf("Credential = %q, want tok1", got)
	}

	s.SetCredential("")
	if got := s.Snapshot().Credential; got != "" {
		t.Errorf("Credential = %q, want empty", got)
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore(50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.AppendLog(LogEntry{Message: "entry"})
				s.SetStatus(StatusConnected, 0)
				_ = s.Snapshot()
				_ = s.Status()
			}
		}()
	}
	wg.Wait()

	if got := len(s.Snapshot().Log); got > 50 {
		t.Errorf("log grew past capacity under concurrency: %d", got)
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusDisconnected: "disconnected",
		StatusConnecting:   "connecting",
		StatusConnected:    "connected",
		StatusReconnecting: "reconnecting",
		Status(99):         "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
