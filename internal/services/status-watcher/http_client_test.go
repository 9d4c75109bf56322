package status_watcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	config "github.com/NordCoder/homework-watcher/internal/config/status-watcher"
	"github.com/NordCoder/homework-watcher/internal/domain/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(config.API{Endpoint: url, Token: "secret", Timeout: 2 * time.Second, UserAgent: "test-agent", VerifyTLS: true})
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "OAuth secret", r.Header.Get("Authorization"))
		assert.Equal(t, "500", r.URL.Query().Get("from_date"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"task1","status":"approved","id":7}],"current_date":1000}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).Fetch(context.Background(), 500)
	require.NoError(t, err)
	require.NotNil(t, p.Homeworks)
	assert.Equal(t, []review.Homework{{Name: "task1", Status: review.StatusApproved}}, *p.Homeworks)
	require.NotNil(t, p.CurrentDate)
	assert.Equal(t, int64(1000), *p.CurrentDate)
}

func TestClient_Fetch_KeepsExistingQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ru", r.URL.Query().Get("lang"))
		assert.Equal(t, "1", r.URL.Query().Get("from_date"))
		_, _ = w.Write([]byte(`{"homeworks":[]}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL+"/?lang=ru").Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, *p.Homeworks)
	assert.Nil(t, p.CurrentDate)
}

func TestClient_Fetch_BadStatusIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), 1)
	require.ErrorIs(t, err, review.ErrUnreachable)

	var rerr *review.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusServiceUnavailable, rerr.StatusCode)
	assert.Contains(t, err.Error(), "status code: 503")
}

func TestClient_Fetch_ConnectionRefusedIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Fetch(context.Background(), 1)
	require.ErrorIs(t, err, review.ErrUnreachable)
	assert.NotContains(t, err.Error(), "from_date")
}

func TestClient_Fetch_TimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cl := NewClient(config.API{Endpoint: srv.URL, Token: "secret", Timeout: 50 * time.Millisecond})
	_, err := cl.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, review.ErrUnreachable)
}

func TestClient_Fetch_MalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json":         `<html>oops</html>`,
		"homeworks object": `{"homeworks":{"homework_name":"x"}}`,
		"array body":       `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Fetch(context.Background(), 1)
			assert.ErrorIs(t, err, review.ErrMalformedPayload)
		})
	}
}

func TestClient_Fetch_OversizedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"homeworks":[],"pad":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxBodyBytes)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), 1)
	require.ErrorIs(t, err, review.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "larger than")
}

func TestClient_Fetch_PayloadAtLimitDecodes(t *testing.T) {
	head, tail := `{"homeworks":[],"pad":"`, `"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(head + strings.Repeat("x", maxBodyBytes-len(head)-len(tail)) + tail))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, *p.Homeworks)
}

func TestClient_Fetch_MissingKeyDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p.Homeworks)
}
