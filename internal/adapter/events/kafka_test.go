package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestBrokers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{}},
		{in: "kafka:9092", want: []string{"kafka:9092"}},
		{in: " a:9092, ,b:9092 ", want: []string{"a:9092", "b:9092"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Brokers(tt.in))
		})
	}
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher(&config.Kafka{Brokers: " "}, zap.NewNop())
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.Publish(context.Background(), domain.OrderEvent{}))

	p = NewPublisher(&config.Kafka{Brokers: "localhost:9092", Topic: "orders"}, zap.NewNop())
	assert.IsType(t, &Publisher{}, p)
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, logger: zap.NewNop()}

	event := domain.OrderEvent{
		ID:         "ev-1",
		Type:       domain.EventOrderPaid,
		OrderID:    "order-1",
		CustomerID: "42",
		Total:      1500,
		Status:     domain.OrderStatusPaid,
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Equal(t, event.CreatedAt, msg.Time)
	assert.Equal(t, "order.paid", string(msg.Headers[0].Value))

	var got domain.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{err: errors.New("no leader")}, logger: zap.NewNop()}

	err := p.Publish(context.Background(), domain.OrderEvent{OrderID: "order-1"})
	assert.ErrorContains(t, err, "no leader")
}
