// Package ratelimit provides the process-global token-bucket admission
// gate of the request pipeline. A single bucket gates all requests;
// state lives in memory and resets on restart.
package ratelimit

import (
	"sync"
	"time"
)

// RetryAfter is the fixed retry hint returned on denial. The limiter
// does not compute an exact wait.
const RetryAfter = 2 * time.Second

// Limiter is a token bucket. Admit refills the bucket from elapsed time
// and consumes one token per admitted request. Safe for unbounded
// concurrent use; the tokens/lastRefill update is a single critical
// section and no two callers can both consume a last remaining token.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	capacity   int
	refillRate float64 // tokens per second

	now func() time.Time // test hook
}

// New creates a full bucket with the given capacity and refill rate in
// tokens per second.
func New(capacity int, refillRate float64) *Limiter {
	l := &Limiter{
		tokens:     float64(capacity),
		capacity:   capacity,
		refillRate: refillRate,
		now:        time.Now,
	}
	l.lastRefill = l.now()
	return l
}

// Admit attempts to consume one token. It returns true when the request
// is admitted, or false with the fixed retry hint when the bucket is
// empty.
func (l *Limiter) Admit() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.refillRate
		if l.tokens > float64(l.capacity) {
			l.tokens = float64(l.capacity)
		}
	}
	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--
		return true, 0
	}
	return false, RetryAfter
}

// Tokens returns the current token count without refilling. For tests
// and introspection.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens
}
