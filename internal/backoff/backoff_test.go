package backoff

import (
	"testing"
	"time"
)

func TestPolicy_Delay_Sequence(t *testing.T) {
	p := Policy{Base: 1 * time.Second, Cap: 30 * time.Second}

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}

	for attempt, w := range want {
		if got := p.Delay(attempt); got != w {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, w)
		}
	}
}

func TestPolicy_Delay_MonotoneNonDecreasing(t *testing.T) {
	p := Default

	prev := time.Duration(0)
	for attempt := 0; attempt < 100; attempt++ {
		d := p.Delay(attempt)
		if d < prev {
			t.Fatalf("Delay(%d) = %v, decreased from %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestPolicy_Delay_LargeAttemptDoesNotOverflow(t *testing.T) {
	p := Default

	if got := p.Delay(1 << 20); got != p.Cap {
		t.Errorf("Delay(1<<20) = %v, want cap %v", got, p.Cap)
	}
}

func TestPolicy_Delay_NegativeAttempt(t *testing.T) {
	p := Default

	if got := p.Delay(-5); got != p.Base {
		t.Errorf("Delay(-5) = %v, want base %v", got, p.Base)
	}
}

func TestPolicy_Delay_Deterministic(t *testing.T) {
	p := Default

	for attempt := 0; attempt < 10; attempt++ {
		first := p.Delay(attempt)
		for i := 0; i < 5; i++ {
			if got := p.Delay(attempt); got != first {
				t.Fatalf("Delay(%d) not deterministic: %v then %v", attempt, first, got)
			}
		}
	}
}
