package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

// defaultEnqueueTimeout caps how long Publish waits for room in the
// producer's input queue before dropping the event
const defaultEnqueueTimeout = 250 * time.Millisecond

// AuditProducer sends audit events to Kafka using an asynchronous producer
type AuditProducer struct {
	producer       sarama.AsyncProducer
	topic          string
	enqueueTimeout time.Duration
	logger         zerolog.Logger
	metrics        *metrics.Metrics
	wg             sync.WaitGroup
	closeOnce      sync.Once
	closeErr       error
	closed         bool
	closeMu        sync.RWMutex
}

// ProducerConfig holds configuration for the audit producer
type ProducerConfig struct {
	Brokers        []string
	Topic          string
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	MaxRetries     int
	EnqueueTimeout time.Duration
}

var _ audit.Publisher = (*AuditProducer)(nil)

// NewAuditProducer creates an async producer keyed by chat id
func NewAuditProducer(cfg ProducerConfig) (*AuditProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = cfg.MaxRetries
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.ClientID = "dead-x-bot-audit"
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := newAuditProducer(producer, cfg.Topic, cfg.Logger, cfg.Metrics)
	if cfg.EnqueueTimeout > 0 {
		p.enqueueTimeout = cfg.EnqueueTimeout
	}

	p.logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka audit producer initialized successfully")

	return p, nil
}

func newAuditProducer(producer sarama.AsyncProducer, topic string, logger zerolog.Logger, m *metrics.Metrics) *AuditProducer {
	p := &AuditProducer{
		producer:       producer,
		topic:          topic,
		enqueueTimeout: defaultEnqueueTimeout,
		logger:         logger.With().Str("component", "audit-producer").Logger(),
		metrics:        m,
	}

	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()

	return p
}

// Publish enqueues an audit event. It never waits longer than the enqueue
// timeout: when the producer's queue is full the event is dropped and counted.
func (p *AuditProducer) Publish(ctx context.Context, event audit.Event) {
	// The read lock keeps Close from shutting the input channel mid-send.
	// The send below is bounded, so Close waits at most one enqueue timeout.
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if p.closed {
		p.logger.Warn().Str("type", string(event.Type)).Msg("audit producer closed, dropping event")
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("type", string(event.Type)).Msg("failed to marshal audit event")
		p.recordError("marshal")
		return
	}

	msg := &sarama.ProducerMessage{
		Topic:    p.topic,
		Key:      sarama.StringEncoder(event.ChatID),
		Value:    sarama.ByteEncoder(value),
		Metadata: time.Now(),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	timer := time.NewTimer(p.enqueueTimeout)
	defer timer.Stop()

	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		p.logger.Warn().Err(ctx.Err()).Str("type", string(event.Type)).Msg("audit event not enqueued")
		p.recordError("context")
	case <-timer.C:
		p.logger.Warn().
			Str("type", string(event.Type)).
			Dur("timeout", p.enqueueTimeout).
			Msg("audit queue full, dropping event")
		p.recordError("overflow")
	}
}

func (p *AuditProducer) handleSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		if p.metrics != nil {
			p.metrics.AuditEventsProduced.Inc()
		}
		if started, ok := msg.Metadata.(time.Time); ok {
			p.logger.Debug().
				Int32("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Dur("latency", time.Since(started)).
				Msg("audit event delivered")
		}
	}
}

func (p *AuditProducer) handleErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.logger.Error().Err(perr.Err).Str("topic", perr.Msg.Topic).Msg("failed to deliver audit event")
		p.recordError("delivery")
	}
}

func (p *AuditProducer) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordAuditError(kind)
	}
}

// Close flushes pending events and stops the producer
func (p *AuditProducer) Close() error {
	p.closeOnce.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		p.closeMu.Unlock()

		p.producer.AsyncClose()
		p.wg.Wait()
		p.logger.Info().Msg("Kafka audit producer closed")
	})
	return p.closeErr
}
