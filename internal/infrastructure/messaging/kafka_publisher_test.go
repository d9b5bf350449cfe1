package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	cfg := config.KafkaConfig{TopicPrefix: "stockflow"}
	p := newKafkaPublisher(w, cfg.Topic)

	err := p.Publish(context.Background(),
		ports.Event{Topic: "orders.completed", Key: "o-1", Payload: map[string]string{"order_number": "SAL-00001"}},
		ports.Event{Topic: "inventory.low-stock", Key: "p-1", Payload: map[string]int{"quantity": 2}},
	)
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)

	first := w.msgs[0]
	assert.Equal(t, "stockflow.orders.completed", first.Topic)
	assert.Equal(t, "o-1", string(first.Key))
	var body map[string]string
	require.NoError(t, json.Unmarshal(first.Value, &body))
	assert.Equal(t, "SAL-00001", body["order_number"])
	assert.Equal(t, "event-type", first.Headers[0].Key)
	assert.Equal(t, "orders.completed", string(first.Headers[0].Value))

	assert.Equal(t, "stockflow.inventory.low-stock", w.msgs[1].Topic)
}

func TestKafkaPublisher_Errors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newKafkaPublisher(w, func(s string) string { return s })

	err := p.Publish(context.Background(), ports.Event{Topic: "t", Payload: 1})
	assert.ErrorContains(t, err, "broker caído")

	err = p.Publish(context.Background(), ports.Event{Topic: "t", Payload: make(chan int)})
	assert.Error(t, err)

	assert.NoError(t, p.Publish(context.Background()))
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logger.Nop())
	assert.NoError(t, p.Publish(context.Background(), ports.Event{Topic: "orders.completed", Key: "o-1"}))
}
