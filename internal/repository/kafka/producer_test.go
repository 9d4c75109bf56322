package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/homework-watcher/internal/domain/review"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestStatusEvents_PublishStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	events := NewStatusEvents(newProducer(w, "homework.status.changed"))

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := events.PublishStatusChanged(context.Background(), review.StatusChange{
		HomeworkName: "task1",
		Status:       review.StatusApproved,
		Known:        true,
		Message:      "approved",
		At:           at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "task1", string(msg.Key))
	assert.Equal(t, "application/json", header(msg, "content-type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "task1", got["homework_name"])
	assert.Equal(t, "approved", got["status"])
	assert.Equal(t, true, got["known"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got["at"])
}

func TestProducer_PublishJSON_InjectsTraceContext(t *testing.T) {
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	w := &fakeWriter{}
	p := newProducer(w, "t")
	require.NoError(t, p.PublishJSON(context.Background(), []byte("k"), map[string]int{"a": 1}))

	require.Len(t, w.msgs, 1)
	assert.NotEmpty(t, header(w.msgs[0], "traceparent"))
}

func TestProducer_PublishJSON_Errors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "t")

	assert.EqualError(t, p.PublishJSON(context.Background(), nil, "x"), "broker down")
	assert.ErrorContains(t, p.PublishJSON(context.Background(), nil, make(chan int)), "marshal event")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestHeaderCarrier_SortedKeys(t *testing.T) {
	c := headerCarrier{"b": "2", "a": "1"}
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	assert.Equal(t, []kafka.Header{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("2")}}, c.ToKafka())
}

func TestEnsureTopic_NoBrokers(t *testing.T) {
	assert.ErrorIs(t, EnsureTopic(context.Background(), nil, TopicSpec{Name: "t"}, nil), ErrNoBrokers)
}
