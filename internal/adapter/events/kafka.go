package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events keyed by order id, so one order's events keep their order.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

func Brokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewPublisher returns Noop when no brokers are configured.
func NewPublisher(conf *config.Kafka, logger *zap.Logger) Closer {
	brokers := Brokers(conf.Brokers)
	if len(brokers) == 0 {
		logger.Info("Kafka brokers not set, order events disabled")
		return Noop{}
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        conf.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}

	p.logger.Debug("Order event published", zap.String("type", event.Type), zap.String("order", event.OrderID))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Closer is an event publisher owning resources released on shutdown.
type Closer interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, domain.OrderEvent) error { return nil }

func (Noop) Close() error { return nil }
