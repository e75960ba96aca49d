package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// completeWithRetry performs the provider call, retrying transient failures
// (429, 5xx, timeouts) with exponential backoff up to MaxRetries extra
// attempts. The default configuration makes exactly one attempt.
func (r *Router) completeWithRetry(ctx context.Context, cl client, req request) (*completion, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retry.MaxRetries; attempt++ {
		comp, err := cl.complete(ctx, req)
		if err == nil {
			return comp, nil
		}

		lastErr = err
		if !IsTransient(err) || attempt == r.retry.MaxRetries {
			break
		}

		backoff := computeBackoff(r.retry.BaseBackoffMs, r.retry.MaxBackoffMs, attempt)
		r.log.Warn("transient provider failure, retrying",
			zap.String("model", req.modelID),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func computeBackoff(baseMs, maxMs, attempt int) time.Duration {
	backoff := time.Duration(baseMs) * time.Millisecond
	limit := time.Duration(maxMs) * time.Millisecond
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= limit {
			return limit
		}
	}
	if backoff > limit {
		return limit
	}
	return backoff
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
