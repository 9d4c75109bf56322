package status_watcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watcher_cycles_total", Help: "Poll cycles by outcome.",
	}, []string{"outcome"})
	mFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watcher_failures_total", Help: "Failed poll cycles by failure kind.",
	}, []string{"kind"})
	mFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "watcher_fetch_duration_seconds",
		Help:    "Review API request latency.",
		Buckets: prometheus.DefBuckets,
	})
	mCursor = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watcher_cursor_unix_seconds", Help: "Current from_date cursor.",
	})
	mNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watcher_notifications_total", Help: "Notifications by kind and result.",
	}, []string{"kind", "result"})
	mEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watcher_events_published_total", Help: "Status change events mirrored to the event stream.",
	}, []string{"result"})
)
