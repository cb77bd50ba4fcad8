// Package status emits best-effort delivery status events for each alert
// attempt. Publishing is observability only: failures are logged and never
// influence a dispatch result, and without configured brokers the
// publisher is a no-op.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/models"
)

// Publisher records one delivery attempt per call.
type Publisher interface {
	PublishOutcome(ctx context.Context, event models.StatusEvent)
	Close() error
}

// NopPublisher discards every event. Used when Kafka is not configured.
type NopPublisher struct{}

// NewNop returns a publisher that discards all events.
func NewNop() *NopPublisher { return &NopPublisher{} }

// PublishOutcome implements Publisher.
func (*NopPublisher) PublishOutcome(context.Context, models.StatusEvent) {}

// Close implements Publisher.
func (*NopPublisher) Close() error { return nil }

// KafkaPublisher writes status events to a Kafka topic via an async
// producer. Events that cannot be enqueued or delivered are dropped after
// logging.
type KafkaPublisher struct {
	logger   zerolog.Logger
	producer sarama.AsyncProducer
	topic    string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewKafka constructs a Kafka-backed status publisher.
func NewKafka(brokers []string, topic string, logger zerolog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("status publisher: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("status publisher: topic is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 250 * time.Millisecond
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("status publisher: create producer: %w", err)
	}

	p := &KafkaPublisher{
		logger:   logger,
		producer: producer,
		topic:    topic,
		stopCh:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.drainErrors()

	return p, nil
}

// PublishOutcome enqueues the event without blocking the dispatch loop.
func (p *KafkaPublisher) PublishOutcome(_ context.Context, event models.StatusEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("status publisher marshal failed")
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.DispatchID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}

	select {
	case p.producer.Input() <- msg:
	default:
		p.logger.Warn().
			Str("dispatch_id", event.DispatchID).
			Msg("status publisher input buffer full, event dropped")
	}
}

// Close shuts down the producer and waits for the error drainer.
func (p *KafkaPublisher) Close() error {
	close(p.stopCh)
	err := p.producer.Close()
	p.wg.Wait()
	if err != nil {
		return fmt.Errorf("status publisher: close producer: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) drainErrors() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case perr, ok := <-p.producer.Errors():
			if !ok {
				return
			}
			if perr != nil {
				p.logger.Error().
					Err(perr.Err).
					Str("topic", perr.Msg.Topic).
					Msg("status publisher delivery error")
			}
		}
	}
}
