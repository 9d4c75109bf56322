package status_watcher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "github.com/NordCoder/homework-watcher/internal/config/status-watcher"
	"github.com/NordCoder/homework-watcher/internal/domain/review"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 1 << 20

// NewHTTPClient builds the traced client used for the review API.
func NewHTTPClient(timeout time.Duration, verifyTLS bool) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !verifyTLS,
			MinVersion:         tls.VersionTLS12,
		},
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// Client queries the homework review API. It never retries.
type Client struct {
	c         *http.Client
	endpoint  string
	token     string
	userAgent string
}

var _ review.Fetcher = (*Client)(nil)

func NewClient(cfg config.API) *Client {
	return NewWithHTTPClient(cfg, NewHTTPClient(cfg.Timeout, cfg.VerifyTLS))
}

func NewWithHTTPClient(cfg config.API, hc *http.Client) *Client {
	return &Client{c: hc, endpoint: cfg.Endpoint, token: cfg.Token, userAgent: cfg.UserAgent}
}

func (cl *Client) Fetch(ctx context.Context, cursor int64) (*review.Payload, error) {
	u, err := url.Parse(cl.endpoint)
	if err != nil {
		return nil, cl.unreachable(0, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(cursor, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, cl.unreachable(0, err)
	}
	req.Header.Set("Authorization", "OAuth "+cl.token)
	req.Header.Set("Accept", "application/json")
	if cl.userAgent != "" {
		req.Header.Set("User-Agent", cl.userAgent)
	}

	resp, err := cl.c.Do(req)
	if err != nil {
		return nil, cl.unreachable(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, cl.unreachable(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, cl.unreachable(resp.StatusCode, err)
	}
	if len(body) > maxBodyBytes {
		return nil, &review.Error{
			Kind:   review.KindMalformedPayload,
			Detail: fmt.Sprintf("endpoint %q returned a payload larger than %d bytes", cl.endpoint, maxBodyBytes),
		}
	}

	var payload review.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &review.Error{
			Kind:   review.KindMalformedPayload,
			Detail: fmt.Sprintf("endpoint %q returned a malformed payload", cl.endpoint),
			Err:    err,
		}
	}
	return &payload, nil
}

func (cl *Client) unreachable(code int, cause error) error {
	detail := fmt.Sprintf("endpoint %q is unreachable", cl.endpoint)
	if code != 0 {
		detail = fmt.Sprintf("endpoint %q is unreachable, status code: %d", cl.endpoint, code)
	}
	var uerr *url.Error
	if errors.As(cause, &uerr) {
		// drop the request URL, the endpoint is already named
		cause = uerr.Err
	}
	return &review.Error{Kind: review.KindUnreachable, Detail: detail, StatusCode: code, Err: cause}
}
