package limiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

type MemoryLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	period   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryLimiter starts a limiter whose expired windows are swept once per
// period. Call Stop to end the sweeper.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go l.cleanup()

	return l
}

func (l *MemoryLimiter) CheckAndRecord(ctx context.Context, identity string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[identity]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[identity] = w
	}
	resetIn := w.start.Add(l.period).Sub(now)

	if w.count >= l.limit {
		return Decision{Allowed: false, Limit: l.limit, RetryAfter: resetIn}, nil
	}

	w.count++
	return Decision{
		Allowed:    true,
		Limit:      l.limit,
		Remaining:  l.limit - w.count,
		RetryAfter: resetIn,
	}, nil
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopCh:
			return
		}
	}
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for identity, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, identity)
		}
	}
}

func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
