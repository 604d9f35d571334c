package kafka

import (
	// Go Internal Packages
	"context"

	// Local Packages
	models "pay-broker/models"

	// External Packages
	"github.com/goccy/go-json"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// AuditProducer publishes audit events keyed by authority, so the events of
// one payment stay ordered on a partition.
type AuditProducer struct {
	Client *kgo.Client
	Config *ProducerConfig
	Logger *zap.Logger
}

func NewAuditProducer(conf *ProducerConfig, metrics *kprom.Metrics, logger *zap.Logger) (*AuditProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),    // Connects to Kafka brokers
		kgo.DefaultProduceTopic(conf.Topic), // Every record goes to the audit topic
		kgo.WithHooks(metrics),              // Attaches monitoring hooks
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &AuditProducer{Client: client, Config: conf, Logger: logger}, nil
}

// Publish sends event asynchronously. Failures are only logged.
func (p *AuditProducer) Publish(ctx context.Context, event models.AuditEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.Logger.Error("failed to marshal audit event", zap.String("id", event.ID), zap.Error(err))
		return
	}

	key := event.Authority
	if key == "" {
		key = event.ID
	}

	record := &kgo.Record{Key: []byte(key), Value: value}
	p.Client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.Logger.Error("failed to publish audit event",
				zap.String("id", event.ID), zap.String("type", string(event.Type)), zap.Error(err))
		}
	})
}

// Close flushes buffered events and closes the client.
func (p *AuditProducer) Close(ctx context.Context) {
	if err := p.Client.Flush(ctx); err != nil {
		p.Logger.Warn("audit events not flushed", zap.Error(err))
	}
	p.Client.Close()
}

// LogPublisher writes audit events to the log when no broker is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, event models.AuditEvent) {
	p.Logger.Debug("audit event",
		zap.String("id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("authority", event.Authority),
		zap.String("detail", event.Detail),
	)
}
