// Package backoff computes reconnection delays.
package backoff

import "time"

// Policy computes the delay before a retry attempt: Base * 2^attempt,
// capped at Cap. It is pure and safe to share.
type Policy struct {
	Base time.Duration
	Cap  time.Duration
}

// Default matches the stream defaults: 1s base, 30s cap.
var Default = Policy{
	Base: 1 * time.Second,
	Cap:  30 * time.Second,
}

// Delay returns the wait before retry number attempt (0-based). Negative
// attempts are treated as 0. The doubling saturates at Cap, so unbounded
// attempt counts never overflow.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := p.Base
	for i := 0; i < attempt; i++ {
		if d >= p.Cap {
			return p.Cap
		}
		d *= 2
	}
	if d > p.Cap {
		return p.Cap
	}
	return d
}
