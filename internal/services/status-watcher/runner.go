package status_watcher

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/NordCoder/homework-watcher/internal/domain/review"
	"github.com/NordCoder/homework-watcher/internal/obs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const defaultInterval = 300 * time.Second

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

type Deps struct {
	Log      *zap.Logger
	Fetcher  review.Fetcher
	Notifier *Notifier
	// Events is optional.
	Events review.EventPublisher
	Clock  review.Clock

	Interval time.Duration
	// HealthSlack is added to two intervals before the loop counts as stalled.
	HealthSlack time.Duration
	// FromDate overrides the initial cursor; zero means "now".
	FromDate int64
}

// Runner is the poll loop. One cycle runs to completion before the next starts,
// so cursor needs no locking; lastCycle is read by the health endpoint.
type Runner struct {
	log      *zap.Logger
	fetcher  review.Fetcher
	notifier *Notifier
	events   review.EventPublisher
	clock    review.Clock

	interval    time.Duration
	healthSlack time.Duration

	cursor    int64
	lastCycle atomic.Int64
}

func New(d Deps) *Runner {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = wallClock{}
	}
	if d.Interval <= 0 {
		d.Interval = defaultInterval
	}
	r := &Runner{
		log:         d.Log.With(zap.String("component", "status-watcher.runner")),
		fetcher:     d.Fetcher,
		notifier:    d.Notifier,
		events:      d.Events,
		clock:       d.Clock,
		interval:    d.Interval,
		healthSlack: d.HealthSlack,
	}
	now := r.clock.Now()
	r.cursor = now.Unix()
	if d.FromDate > 0 {
		r.cursor = d.FromDate
	}
	r.lastCycle.Store(now.UnixNano())
	mCursor.Set(float64(r.cursor))
	return r
}

func (r *Runner) Cursor() int64 { return r.cursor }

// Run polls until ctx is canceled. Cycle failures never end the loop.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("watcher started", zap.Duration("interval", r.interval), zap.Int64("cursor", r.cursor))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Cycle(ctx)

		t := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			r.log.Info("watcher stopping", zap.Int64("cursor", r.cursor))
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Cycle performs one fetch, validate, notify pass.
func (r *Runner) Cycle(ctx context.Context) Outcome {
	tr := otel.Tracer("status-watcher.runner")
	ctx, span := tr.Start(ctx, "watcher.cycle")
	defer span.End()
	span.SetAttributes(attribute.Int64("cursor.from", r.cursor))

	out := r.cycle(ctx)

	span.SetAttributes(attribute.String("cycle.outcome", out.Kind.String()))
	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.FailureKind().String())
	}
	mCycles.WithLabelValues(out.Kind.String()).Inc()
	r.lastCycle.Store(r.clock.Now().UnixNano())
	return out
}

func (r *Runner) cycle(ctx context.Context) Outcome {
	log := obs.WithTrace(ctx, r.log)

	log.Info("requesting review statuses", zap.Int64("from_date", r.cursor))
	start := time.Now()
	payload, err := r.fetcher.Fetch(ctx, r.cursor)
	mFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return r.fail(ctx, log, err)
	}

	hw, ok, err := Validate(payload)
	if err != nil {
		return r.fail(ctx, log, err)
	}
	r.notifier.Recovered()

	if !ok {
		log.Debug("no homework updates")
		r.advance(log, payload)
		return Outcome{Kind: OutcomeNoUpdate}
	}

	if !hw.Status.Known() {
		log.Error("unknown homework status", zap.String("homework", hw.Name), zap.String("status", string(hw.Status)))
	}
	text := Render(hw.Name, hw.Status)
	r.notifier.Notify(ctx, text)
	r.publish(ctx, log, hw, text)
	r.advance(log, payload)
	return Outcome{Kind: OutcomeUpdate, Text: text}
}

func (r *Runner) fail(ctx context.Context, log *zap.Logger, err error) Outcome {
	if ctx.Err() != nil {
		log.Info("cycle interrupted", zap.Error(err))
		return Outcome{Kind: OutcomeError, Err: err}
	}
	kind := review.KindOf(err)
	mFailures.WithLabelValues(kind.String()).Inc()

	// the cause stays in the log; the message must repeat verbatim for dedup
	msg := fmt.Sprintf("Program failure: %s", review.ReasonOf(err))
	log.Error("poll cycle failed", zap.String("kind", kind.String()), zap.Error(err))
	r.notifier.Report(ctx, msg)
	return Outcome{Kind: OutcomeError, Err: err}
}

// advance moves the cursor to the server time, never backwards and never to a missing value.
func (r *Runner) advance(log *zap.Logger, p *review.Payload) {
	if p.CurrentDate == nil {
		return
	}
	next := *p.CurrentDate
	if next < r.cursor {
		log.Warn("ignoring cursor rewind", zap.Int64("cursor", r.cursor), zap.Int64("current_date", next))
		return
	}
	r.cursor = next
	mCursor.Set(float64(next))
}

func (r *Runner) publish(ctx context.Context, log *zap.Logger, hw review.Homework, text string) {
	if r.events == nil {
		return
	}
	err := r.events.PublishStatusChanged(ctx, review.StatusChange{
		HomeworkName: hw.Name,
		Status:       hw.Status,
		Known:        hw.Status.Known(),
		Message:      text,
		At:           r.clock.Now().UTC(),
	})
	if err != nil {
		mEvents.WithLabelValues("error").Inc()
		log.Warn("publish status change", zap.String("homework", hw.Name), zap.Error(err))
		return
	}
	mEvents.WithLabelValues("ok").Inc()
}

// Healthy fails when no cycle has finished for two intervals plus the slack.
func (r *Runner) Healthy(_ context.Context) error {
	last := time.Unix(0, r.lastCycle.Load())
	limit := 2*r.interval + r.healthSlack
	if age := r.clock.Now().Sub(last); age > limit {
		return fmt.Errorf("last poll cycle finished %s ago", age.Round(time.Second))
	}
	return nil
}
