package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/homework-watcher/internal/config/status-watcher"
	"github.com/NordCoder/homework-watcher/internal/domain/review"
	"github.com/NordCoder/homework-watcher/internal/obs"
	"github.com/NordCoder/homework-watcher/internal/obs/retry"
	"github.com/NordCoder/homework-watcher/internal/repository/kafka"
	"github.com/NordCoder/homework-watcher/internal/repository/telegram"
	watcher "github.com/NordCoder/homework-watcher/internal/services/status-watcher"

	"go.uber.org/zap"
)

const defaultConfigPath = "config/status-watcher.yaml"

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func wire(cfg *config.Config, events review.EventPublisher, l *zap.Logger) *watcher.Runner {
	bot := telegram.New(cfg.Telegram).WithLogger(l)
	policy := retry.SendPolicy("telegram.send", cfg.Notify.Attempts, cfg.Notify.BackoffBase, cfg.Notify.BackoffMax, l)

	return watcher.New(watcher.Deps{
		Log:         l,
		Fetcher:     watcher.NewClient(cfg.API),
		Notifier:    watcher.NewNotifier(bot, policy, l),
		Events:      events,
		Clock:       systemClock{},
		Interval:    cfg.Poll.Interval,
		HealthSlack: cfg.API.Timeout,
		FromDate:    cfg.Poll.FromDate,
	})
}

func main() {
	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	path := os.Getenv("STATUS_WATCHER_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, closeLog, err := obs.NewLogger(cfg.Log.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = closeLog() }()

	if err := cfg.Validate(); err != nil {
		l.Fatal("configuration is incomplete, the watcher is stopped", zap.Error(err))
	}

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// kafka
	var events review.EventPublisher
	if cfg.Events.Enable {
		if err := kafka.EnsureTopic(root, cfg.Events.Brokers, kafka.TopicSpec{Name: cfg.Events.Topic}, l); err != nil {
			l.Warn("ensure topic failed, relying on auto creation", zap.Error(err))
		}
		prod := kafka.NewProducer(cfg.Events.Brokers, cfg.Events.Topic).WithLogger(l)
		defer func() { _ = prod.Close() }()
		events = kafka.NewStatusEvents(prod)
	}

	// wiring
	runner := wire(cfg, events, l)

	// metrics
	var ms *http.Server
	if cfg.Server.MetricsAddr != "" {
		ms = obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, runner.Healthy, l)
	}

	// start
	l.Info("config loaded",
		zap.String("endpoint", cfg.API.Endpoint),
		zap.Duration("interval", cfg.Poll.Interval),
		zap.Int64("cursor", runner.Cursor()),
	)
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(root) }()

	// loop
	select {
	case <-root.Done():
		<-errCh
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}

	// graceful metrics server shutdown
	if ms != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = ms.Shutdown(shCtx)
	}
	l.Info("bye")
}
