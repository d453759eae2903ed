package client

import (
	"account-storefront/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	EventOrderSettled = "order.settled"
	EventOrderExpired = "order.expired"
)

// OrderEvent is published once per terminal transition. Credentials are never included.
type OrderEvent struct {
	Type            string    `json:"event_type"`
	OrderID         string    `json:"order_id"`
	ExternalOrderID string    `json:"external_order_id"`
	ProductID       string    `json:"app_id"`
	Quantity        int       `json:"quantity"`
	Total           int64     `json:"total"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type kafkaPublisherImpl struct {
	producer sarama.SyncProducer
	topic    string
	timeout  time.Duration
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

// NewEventPublisher connects a sync producer, or returns a no-op publisher when no
// brokers are configured.
func NewEventPublisher(cfg config.Kafka) (EventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return NoopEventPublisher{}, nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5
	if cfg.PublishTimeout > 0 {
		saramaCfg.Producer.Timeout = cfg.PublishTimeout
		saramaCfg.Net.DialTimeout = cfg.PublishTimeout
		saramaCfg.Net.ReadTimeout = cfg.PublishTimeout
		saramaCfg.Net.WriteTimeout = cfg.PublishTimeout
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to kafka: %w", err)
	}

	return NewKafkaEventPublisher(producer, cfg.Topic, cfg.PublishTimeout), nil
}

// NewKafkaEventPublisher wraps producer. Publish gives up after timeout; zero means
// it waits as long as ctx allows.
func NewKafkaEventPublisher(producer sarama.SyncProducer, topic string, timeout time.Duration) EventPublisher {
	return &kafkaPublisherImpl{
		producer: producer,
		topic:    topic,
		timeout:  timeout,
	}
}

func (p *kafkaPublisherImpl) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ExternalOrderID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// SendMessage takes no context; a stalled broker is abandoned, not waited on.
	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("send %s event: %w", event.Type, res.err)
		}
		slog.DebugContext(ctx, "order event published",
			"event_type", event.Type,
			"order_id", event.ExternalOrderID,
			"partition", res.partition,
			"offset", res.offset,
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send %s event: %w", event.Type, ctx.Err())
	}
}

func (p *kafkaPublisherImpl) Close() error {
	return p.producer.Close()
}

type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NoopEventPublisher) Close() error { return nil }
