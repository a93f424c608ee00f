package patchstorage

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// RateLimiter throttles requests proactively with a token bucket and
// reactively pauses after the service answers 429 with Retry-After.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter // nil when unthrottled
	pauseUntil time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// rps <= 0 disables proactive throttling.
func NewRateLimiter(rps float64) *RateLimiter {
	r := &RateLimiter{}
	if rps > 0 {
		r.bucket = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return r
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket != nil {
		if err := r.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	pauseUntil := r.pauseUntil
	r.mu.Unlock()

	if wait := time.Until(pauseUntil); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// UpdateFromResponse records a Retry-After pause from a 429 response.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter))
	if err != nil || seconds <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	until := time.Now().Add(time.Duration(seconds) * time.Second)
	if until.After(r.pauseUntil) {
		r.pauseUntil = until
	}
}

// PauseUntil returns the end of the current reactive pause.
func (r *RateLimiter) PauseUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauseUntil
}
