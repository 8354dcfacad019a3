package middleware

import (
	"context"
	"sync"
	"time"
)

// InvalidAuthRateLimiter counts failed authentication attempts per IP in a
// fixed window. Successful requests are never counted.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	attempts map[string]*attemptInfo
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewInvalidAuthRateLimiter allows limit failures per window per IP. Stale
// entries are swept until ctx is canceled.
func NewInvalidAuthRateLimiter(ctx context.Context, limit int, window time.Duration) *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		attempts: make(map[string]*attemptInfo),
	}
	go rl.cleanup(ctx)
	return rl
}

// Allow records a failed attempt from ip and reports whether it is still
// under the limit.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

// Blocked reports whether ip has used up its attempts without recording one.
func (r *InvalidAuthRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.attempts[ip]
	return ok && r.now().Sub(info.firstAt) <= r.window && info.count >= r.limit
}

func (r *InvalidAuthRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * r.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (r *InvalidAuthRateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
		}
	}
}
