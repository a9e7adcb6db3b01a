package service

import "time"

// SetClock replaces the time source of a TokenBucket.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.now = now
}

// EvictIdle runs one sweep pass.
func (tb *TokenBucket) EvictIdle() {
	tb.evictIdle()
}

// SetClock replaces the time source of a TokenIssuer.
func (i *TokenIssuer) SetClock(now func() time.Time) {
	i.now = now
}
