package status_watcher

import (
	"context"

	"github.com/NordCoder/homework-watcher/internal/domain/review"
	"github.com/NordCoder/homework-watcher/internal/obs/retry"

	"go.uber.org/zap"
)

const (
	kindStatus  = "status"
	kindFailure = "failure"
)

// Notifier delivers messages through the configured transport. It never returns errors:
// delivery problems are logged and the poll loop carries on.
//
// Not safe for concurrent use; the poll loop is its only caller.
type Notifier struct {
	out    review.Transport
	policy retry.Policy
	log    *zap.Logger

	lastFailure string
}

func NewNotifier(out review.Transport, policy retry.Policy, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		out:    out,
		policy: policy,
		log:    log.With(zap.String("component", "status-watcher.notifier")),
	}
}

// Notify sends a status change. Repeated texts are sent every time.
func (n *Notifier) Notify(ctx context.Context, text string) {
	n.deliver(ctx, kindStatus, text)
}

// Report sends a failure diagnostic unless it repeats the last one delivered.
func (n *Notifier) Report(ctx context.Context, text string) {
	if text == n.lastFailure {
		mNotifications.WithLabelValues(kindFailure, "suppressed").Inc()
		n.log.Debug("failure report suppressed", zap.String("text", text))
		return
	}
	if n.deliver(ctx, kindFailure, text) {
		n.lastFailure = text
	}
}

// Recovered forgets the last failure so the next one is reported even if identical.
func (n *Notifier) Recovered() {
	n.lastFailure = ""
}

func (n *Notifier) deliver(ctx context.Context, kind, text string) bool {
	n.log.Info("sending message", zap.String("kind", kind), zap.String("text", text))
	err := retry.Do(ctx, func() error { return n.out.Send(ctx, text) }, n.policy)
	if err != nil {
		mNotifications.WithLabelValues(kind, "failed").Inc()
		n.log.Error("message delivery failed", zap.String("kind", kind), zap.Error(err))
		return false
	}
	mNotifications.WithLabelValues(kind, "sent").Inc()
	return true
}
