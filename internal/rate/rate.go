package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces outbound panel requests so a scripted run cannot
// hammer the backend. Callers receive the context error if cancelled
// while waiting.
type Limiter struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

func NewLimiter(rpm int) *Limiter {
	if rpm <= 0 {
		rpm = 120
	}
	return &Limiter{interval: time.Minute / time.Duration(rpm)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	next := l.last.Add(l.interval)
	if next.Before(now) {
		next = now
	}
	l.last = next
	l.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
