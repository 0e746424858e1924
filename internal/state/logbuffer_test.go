package state

import (
	"fmt"
	"testing"
)

func TestLogBuffer_NeverExceedsCapacity(t *testing.T) {
	b := NewLogBuffer(10)

	for i := 0; i < 35; i++ {
		b.Append(LogEntry{Message: fmt.Sprintf("line %d", i)})
		if b.Len() > 10 {
			t.Fatalf("Len() = %d after %d appends, want <= 10", b.Len(), i+1)
		}
	}
}

func TestLogBuffer_KeepsLastEntriesInOrder(t *testing.T) {
	b := NewLogBuffer(5)

	// capacity + K appends
	for i := 0; i < 12; i++ {
		b.Append(LogEntry{Message: fmt.Sprintf("line %d", i)})
	}

	entries := b.Entries()
	if len(entries) != 5 {
		t.Fatalf("len(Entries()) = %d, want 5", len(entries))
	}

	// Expect the last 5: line 7..line 11, oldest first
	for i, e := range entries {
		want := fmt.Sprintf("line %d", 7+i)
		if e.Message != want {
			t.Errorf("Entries()[%d].Message = %q, want %q", i, e.Message, want)
		}
	}
}

func TestLogBuffer_PartialFill(t *testing.T) {
	b := NewLogBuffer(100)

	b.Append(LogEntry{Message: "first"})
	b.Append(LogEntry{Message: "second"})

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(Entries()) = %d, want 2", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Errorf("Entries() = %q, %q, want first, second", entries[0].Message, entries[1].Message)
	}
}

func TestLogBuffer_Clear(t *testing.T) {
	b := NewLogBuffer(3)

	for i := 0; i < 5; i++ {
		b.Append(LogEntry{Message: "x"})
	}
	b.Clear()

	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", b.Len())
	}

	// Ring works normally after a clear
	b.Append(LogEntry{Message: "fresh"})
	entries := b.Entries()
	if len(entries) != 1 || entries[0].Message != "fresh" {
		t.Errorf("Entries() after Clear+Append = %v, want [fresh]", entries)
	}
}
