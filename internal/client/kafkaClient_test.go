package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"account-storefront/internal/client"
	"account-storefront/internal/config"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaEventPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "storefront.orders" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "ext-1" {
			return errors.New("unexpected key " + string(key))
		}

		value, _ := msg.Value.Encode()
		var event client.OrderEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Type != client.EventOrderSettled {
			return errors.New("unexpected event type " + event.Type)
		}
		return nil
	})

	pub := client.NewKafkaEventPublisher(producer, "storefront.orders", time.Second)
	err := pub.Publish(context.Background(), client.OrderEvent{
		Type:            client.EventOrderSettled,
		OrderID:         "id-1",
		ExternalOrderID: "ext-1",
		ProductID:       "net-x",
		Quantity:        2,
		Total:           30000,
		OccurredAt:      time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaEventPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := client.NewKafkaEventPublisher(producer, "storefront.orders", time.Second)
	err := pub.Publish(context.Background(), client.OrderEvent{Type: client.EventOrderExpired, ExternalOrderID: "ext-1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestNewEventPublisher_NoBrokers(t *testing.T) {
	pub, err := client.NewEventPublisher(config.Kafka{Topic: "storefront.orders"})
	require.NoError(t, err)
	assert.IsType(t, client.NoopEventPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), client.OrderEvent{Type: client.EventOrderSettled}))
}

// stalledProducer blocks SendMessage until release is closed.
type stalledProducer struct {
	sarama.SyncProducer
	release chan struct{}
}

func (p *stalledProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	<-p.release
	return 0, 0, nil
}

func (p *stalledProducer) Close() error { return nil }

func TestKafkaEventPublisher_PublishGivesUpOnStalledBroker(t *testing.T) {
	producer := &stalledProducer{release: make(chan struct{})}
	defer close(producer.release)

	pub := client.NewKafkaEventPublisher(producer, "storefront.orders", 50*time.Millisecond)

	start := time.Now()
	err := pub.Publish(context.Background(), client.OrderEvent{Type: client.EventOrderSettled, ExternalOrderID: "ext-1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestKafkaEventPublisher_PublishHonoursCallerContext(t *testing.T) {
	producer := &stalledProducer{release: make(chan struct{})}
	defer close(producer.release)

	pub := client.NewKafkaEventPublisher(producer, "storefront.orders", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.Publish(ctx, client.OrderEvent{Type: client.EventOrderExpired, ExternalOrderID: "ext-1"})
	assert.ErrorIs(t, err, context.Canceled)
}
