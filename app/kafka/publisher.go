package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	ckafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const flushTimeoutMs = 10000

// producer is the slice of the librdkafka producer the publisher uses.
// Narrowed to an interface so backpressure behavior is testable.
type producer interface {
	Produce(msg *ckafka.Message, deliveryChan chan ckafka.Event) error
	Flush(timeoutMs int) int
}

var _ producer = (*ckafka.Producer)(nil)

// ConfigResolver supplies the producer settings, typically from a secret.
type ConfigResolver func(ctx context.Context) (map[string]string, error)

// Publisher delivers one message per new article to a broker topic. The
// underlying producer is process-wide: built lazily on first use, reused
// for the process lifetime, and torn down only by process shutdown.
type Publisher struct {
	resolveConfig ConfigResolver
	newProducer   func(config map[string]string) (producer, error)

	mu       sync.Mutex
	producer producer
}

func NewPublisher(resolveConfig ConfigResolver) *Publisher {
	return &Publisher{
		resolveConfig: resolveConfig,
		newProducer:   newConfluentProducer,
	}
}

func newConfluentProducer(config map[string]string) (producer, error) {
	configMap := ckafka.ConfigMap{}
	for key, value := range config {
		configMap[key] = value
	}
	return ckafka.NewProducer(&configMap)
}

// Init constructs the producer if it does not exist yet. Guarded against
// concurrent first use; subsequent calls are cheap no-ops.
func (p *Publisher) Init(ctx context.Context) error {
	_, err := p.getProducer(ctx)
	return err
}

func (p *Publisher) getProducer(ctx context.Context) (producer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.producer != nil {
		return p.producer, nil
	}

	config, err := p.resolveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve kafka config: %w", err)
	}

	prod, err := p.newProducer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p.producer = prod
	return prod, nil
}

// Publish serializes the article and sends it to the topic keyed by the
// article identifier. When the producer signals a full outbound buffer,
// exactly one flush-and-retry cycle is attempted. Returns false on any
// failure; the caller decides what a failed publish means for the item.
func (p *Publisher) Publish(ctx context.Context, item map[string]any, key, topic string) bool {
	prod, err := p.getProducer(ctx)
	if err != nil {
		slog.Error("Kafka producer unavailable", "error", err)
		return false
	}

	payload, err := json.Marshal(item)
	if err != nil {
		slog.Error("Failed to serialize article", "key", key, "error", err)
		return false
	}

	msg := &ckafka.Message{
		TopicPartition: ckafka.TopicPartition{Topic: &topic, Partition: ckafka.PartitionAny},
		Key:            []byte(key),
		Value:          payload,
	}

	err = prod.Produce(msg, nil)
	if err == nil {
		prod.Flush(flushTimeoutMs)
		return true
	}

	if kafkaErr, ok := err.(ckafka.Error); ok && kafkaErr.Code() == ckafka.ErrQueueFull {
		slog.Warn("Kafka buffer full, flushing and retrying once", "key", key)
		prod.Flush(flushTimeoutMs)
		if err := prod.Produce(msg, nil); err != nil {
			slog.Error("Kafka publish failed after retry", "key", key, "error", err)
			return false
		}
		prod.Flush(flushTimeoutMs)
		return true
	}

	slog.Error("Kafka publish failed", "key", key, "error", err)
	return false
}
