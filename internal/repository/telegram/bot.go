package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/NordCoder/homework-watcher/internal/config/status-watcher"
	"github.com/NordCoder/homework-watcher/internal/domain/review"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const redactedToken = "<redacted>"

// APIError is a non-OK answer of the Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram error %d: %s", e.StatusCode, e.Description)
}

// Retryable is true for rate limiting and server side failures only.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Bot sends plain-text messages to one chat through the Telegram Bot API.
type Bot struct {
	c        *http.Client
	endpoint string
	// endpoint with the token masked, safe for spans and logs
	safeEndpoint string
	chatID       string
	log          *zap.Logger
}

var _ review.Transport = (*Bot)(nil)

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewHTTPClient returns an untraced client. The request path carries the bot
// token, so HTTP instrumentation must not see it; Send records its own span.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

func New(cfg config.Telegram) *Bot {
	return NewWithHTTPClient(cfg, NewHTTPClient(cfg.Timeout))
}

func NewWithHTTPClient(cfg config.Telegram, hc *http.Client) *Bot {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Bot{
		c:            hc,
		endpoint:     fmt.Sprintf("%s/bot%s/sendMessage", base, cfg.Token),
		safeEndpoint: fmt.Sprintf("%s/bot%s/sendMessage", base, redactedToken),
		chatID:       cfg.ChatID,
		log:          zap.L().With(zap.String("component", "telegram.bot")),
	}
}

func (b *Bot) WithLogger(l *zap.Logger) *Bot {
	if l == nil {
		return b
	}
	cp := *b
	cp.log = l.With(zap.String("component", "telegram.bot"))
	return &cp
}

func (b *Bot) Send(ctx context.Context, text string) (err error) {
	tr := otel.Tracer("telegram.bot")
	ctx, span := tr.Start(ctx, "telegram.sendMessage", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", b.safeEndpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
		}
		span.End()
	}()

	form := url.Values{}
	form.Set("chat_id", b.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", redact(err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.c.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", redact(err))
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var out apiResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK || !out.OK {
		desc := out.Description
		if desc == "" {
			desc = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Description: desc}
	}

	b.log.Debug("message sent", zap.String("chat_id", b.chatID), zap.Int("len", len(text)))
	return nil
}

// redact strips the request URL, which embeds the bot token, from transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
