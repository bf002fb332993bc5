package events

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/agridirect/marketplace/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Producer writes events to Kafka. A nil Producer skips publishing.
type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewProducer(cfg config.KafkaConfig, log *zap.Logger) *Producer {
	if cfg.Broker == "" {
		return nil
	}

	transport := kafka.DefaultTransport
	if cfg.Username != "" {
		transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.Username,
				Password: cfg.Password,
			},
			TLS: &tls.Config{},
		}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
		log: log.Named("events.producer"),
	}
}

func (p *Producer) Publish(ctx context.Context, event Event) {
	if p == nil || p.writer == nil {
		return
	}

	value, err := event.encode()
	if err != nil {
		p.log.Warn("encode event", zap.String("event", event.Name), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   event.key(),
		Value: value,
		Time:  event.At,
	}); err != nil {
		p.log.Warn("publish event", zap.String("event", event.Name), zap.String("id", event.ID), zap.Error(err))
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func providePublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Publisher {
	producer := NewProducer(cfg.Kafka, log)
	if producer == nil {
		log.Info("kafka broker not configured, events disabled")
		return Nop()
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return producer.Close()
		},
	})
	return producer
}

var Module = fx.Module("events",
	fx.Provide(providePublisher),
)
