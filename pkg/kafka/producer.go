package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/logger"
)

// Publisher sends keyed messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
	Close() error
}

// Producer is a synchronous sarama producer.
type Producer struct {
	producer sarama.SyncProducer
	logg     *logger.Logger
}

// NewPublisher returns a sarama-backed Publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg config.KafkaConfig, logg *logger.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}
	sc := sarama.NewConfig()
	sc.ClientID = "washday-api"
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	if cfg.Timeout > 0 {
		sc.Producer.Timeout = cfg.Timeout
		sc.Net.DialTimeout = cfg.Timeout
	}
	prod, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewProducer(prod, logg), nil
}

// NewProducer wraps an existing sarama.SyncProducer.
func NewProducer(p sarama.SyncProducer, logg *logger.Logger) *Producer {
	return &Producer{producer: p, logg: logg}
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka producer not initialized")
	}
	if topic == "" {
		return errors.New("kafka topic is required")
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(value),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	// SyncProducer ignores contexts; stop waiting once ctx is done.
	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	var res sendResult
	select {
	case <-ctx.Done():
		return fmt.Errorf("send to %s: %w", topic, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return fmt.Errorf("send to %s: %w", topic, res.err)
	}
	if p.logg != nil {
		p.logg.Debug(p.logg.WithFields(ctx, map[string]any{
			"topic":     topic,
			"partition": res.partition,
			"offset":    res.offset,
		}), "kafka message stored")
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// Noop drops every message. Used when Kafka is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, []byte) error { return nil }
func (Noop) Close() error                                          { return nil }
