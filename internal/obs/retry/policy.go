package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// retryable is implemented by errors that know whether a retry can help,
// for example an API answer carrying its status code.
type retryable interface {
	Retryable() bool
}

// SendPolicy retries outbound notification deliveries. Errors implementing
// Retryable decide for themselves; anything else except cancellation is retried.
func SendPolicy(name string, attempts int, base, maxWait time.Duration, log *zap.Logger) Policy {
	return Policy{
		Name:     name,
		Attempts: attempts,
		Backoff:  ExpoJitter{Base: base, Max: maxWait, Jitter: 0.2},
		Retryable: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return false
			}
			var r retryable
			if errors.As(err, &r) {
				return r.Retryable()
			}
			return true
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("delivery attempt failed", zap.String("target", name), zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("delivery retries exhausted", zap.String("target", name), zap.Error(err))
			}
		},
	}
}
