package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/bloomgen/internal/logger"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// Retrying retries a Completer on RetryableError, sleeping Backoff between
// attempts. Other errors return immediately.
type Retrying struct {
	Next       Completer
	MaxRetries int
	Log        *logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrying(next Completer, maxRetries int, log *logger.Logger) *Retrying {
	if log == nil {
		log = logger.Nop()
	}
	return &Retrying{Next: next, MaxRetries: maxRetries, Log: log, sleep: sleepCtx}
}

func (r *Retrying) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			d := Backoff(attempt - 1)
			r.Log.Warn("retrying completion", "attempt", attempt, "backoff", d.String(), "error", lastErr)
			if err := sleep(ctx, d); err != nil {
				return "", err
			}
		}
		out, err := r.Next.Complete(ctx, prompt, p)
		if err == nil {
			return out, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// Model forwards to the wrapped client when it reports one.
func (r *Retrying) Model() string {
	if m, ok := r.Next.(Modeler); ok {
		return m.Model()
	}
	return ""
}

// Close forwards to the wrapped client.
func (r *Retrying) Close() { Close(r.Next) }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
