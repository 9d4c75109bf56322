package kafka

import (
	"context"

	"github.com/NordCoder/homework-watcher/internal/domain/review"
)

type jsonPublisher interface {
	PublishJSON(ctx context.Context, key []byte, v any) error
}

// StatusEvents publishes detected review status changes, keyed by homework name.
type StatusEvents struct {
	p jsonPublisher
}

var _ review.EventPublisher = (*StatusEvents)(nil)

func NewStatusEvents(p *Producer) *StatusEvents {
	return &StatusEvents{p: p}
}

func (s *StatusEvents) PublishStatusChanged(ctx context.Context, ev review.StatusChange) error {
	return s.p.PublishJSON(ctx, []byte(ev.HomeworkName), ev)
}
