package kafka

import (
	"context"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides the audit publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewAuditPublisherFx),
)

// NewAuditPublisherFx creates a Kafka audit publisher, or a no-op one when
// no brokers are configured
func NewAuditPublisherFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (audit.Publisher, error) {
	if len(kafkaCfg.Brokers) == 0 {
		logger.Info().Msg("KAFKA_BROKERS not set, audit events disabled")
		return audit.NopPublisher{}, nil
	}

	producer, err := NewAuditProducer(ProducerConfig{
		Brokers: kafkaCfg.Brokers,
		Topic:   kafkaCfg.AuditTopic,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
