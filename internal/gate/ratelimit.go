package gate

import (
	"sync"
	"time"
)

// RateDecision is the outcome of a rate limit check.
type RateDecision struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

type rateWindow struct {
	count     int
	resetTime time.Time
}

// RateLimiter counts requests per identifier over a fixed window. It is not
// a sliding window: bursts straddling a window boundary can briefly exceed
// the intended rate, in exchange for O(1) state per identifier.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	windows     map[string]*rateWindow
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		windows:     make(map[string]*rateWindow),
		now:         time.Now,
	}
}

// Configure replaces the limit and window. Existing windows keep their
// reset times; the new ceiling applies to them immediately.
func (rl *RateLimiter) Configure(maxRequests int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.maxRequests = maxRequests
	rl.window = window
}

// Check admits or rejects one request for the identifier. The first request,
// or the first after the window elapses, opens a fresh window. Once the
// window count reaches the limit further requests are rejected without
// incrementing, so the count never exceeds the limit.
func (rl *RateLimiter) Check(identifier string) RateDecision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[identifier]
	if !ok || now.After(w.resetTime) {
		w = &rateWindow{count: 1, resetTime: now.Add(rl.window)}
		rl.windows[identifier] = w
		return RateDecision{Allowed: true, Remaining: rl.maxRequests - 1, ResetTime: w.resetTime}
	}

	if w.count >= rl.maxRequests {
		return RateDecision{Allowed: false, Remaining: 0, ResetTime: w.resetTime}
	}

	w.count++
	return RateDecision{Allowed: true, Remaining: rl.maxRequests - w.count, ResetTime: w.resetTime}
}

// Sweep removes expired windows and returns how many were evicted. Lazy
// rollover already ignores expired windows; the sweep only bounds memory
// under high-cardinality identifiers.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	evicted := 0
	for id, w := range rl.windows {
		if now.After(w.resetTime) {
			delete(rl.windows, id)
			evicted++
		}
	}
	return evicted
}

// Size reports the number of tracked windows, expired or not.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}
