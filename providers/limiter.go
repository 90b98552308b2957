package providers

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-provider request rate so the flexible-date
// window (several calls per provider) stays within upstream quotas.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst, tracked independently per provider name.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until the named provider may issue a request, or until the
// context is cancelled.
func (l *Limiter) Wait(ctx context.Context, provider string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	limiter, ok := l.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[provider] = limiter
	}
	l.mu.Unlock()
	return limiter.Wait(ctx)
}
