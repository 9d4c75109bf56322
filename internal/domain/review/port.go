package review

import (
	"context"
	"time"
)

type Fetcher interface {
	Fetch(ctx context.Context, cursor int64) (*Payload, error)
}

// Transport delivers a plain-text message to the preconfigured recipient.
type Transport interface {
	Send(ctx context.Context, text string) error
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusChange) error
}

type Clock interface {
	Now() time.Time
}
