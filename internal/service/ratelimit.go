package service

import (
	"sync"
	"time"
)

// MinIntervalLimiter enforces a minimum interval per key, where a key
// combines a user and an action (e.g. "book:42"). It is process-wide
// in-memory state with no persistence: losing it on restart only
// re-admits one burst click, never a business invariant. The HTTP
// layer additionally applies a Redis token bucket for coarse API
// limiting; this limiter exists because the 800ms double-click guard
// belongs with the admission logic, not the transport.
type MinIntervalLimiter struct {
	mu        sync.Mutex
	lastTouch map[string]time.Time
	now       func() time.Time
}

// NewMinIntervalLimiter returns an empty limiter.
func NewMinIntervalLimiter() *MinIntervalLimiter {
	return &MinIntervalLimiter{
		lastTouch: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Allow records a touch for the key and reports whether at least
// minInterval has elapsed since the previous touch. The touch is
// recorded even when the call is rejected, matching the behaviour of
// a debounce: hammering the button keeps pushing the window forward.
func (l *MinIntervalLimiter) Allow(key string, minInterval time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	prev, seen := l.lastTouch[key]
	l.lastTouch[key] = now
	if seen && now.Sub(prev) < minInterval {
		return false
	}
	return true
}
