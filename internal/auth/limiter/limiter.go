package limiter

import (
	"context"
	"time"
)

// Decision is the outcome of recording one attempt.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts attempts per client identity in fixed windows.
type Limiter interface {
	CheckAndRecord(ctx context.Context, identity string) (Decision, error)
	Stop()
}
