package kafka

import (
	// Go Internal Packages
	"context"
	"errors"
	"fmt"

	// Local Packages
	models "pay-broker/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ConsumerConfig struct {
	Brokers        []string
	Name           string
	Topic          string
	RecordsPerPoll int
}

type Consumer struct {
	Client    *kgo.Client
	Config    *ConsumerConfig
	Processor AuditProcessor
	DLQ       DeadLetterQueue
	Logger    *zap.Logger
}

type AuditProcessor interface {
	ProcessRecords(ctx context.Context, records []models.Record) error
}

type DeadLetterQueue interface {
	Send(ctx context.Context, records []models.Record) error
}

// NewAuditConsumer creates a consumer of the audit topic (PS: Must call Poll to
// start consuming the records)
func NewAuditConsumer(conf *ConsumerConfig, logger *zap.Logger, processor AuditProcessor, dlq DeadLetterQueue, metrics *kprom.Metrics) (*Consumer, error) {
	c := &Consumer{Config: conf, Processor: processor, DLQ: dlq, Logger: logger}

	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...), // Connects to Kafka brokers
		kgo.ConsumerGroup(conf.Name),     // Specifies the consumer group
		kgo.ConsumeTopics(conf.Topic),    // Specifies a single topic to consume
		kgo.WithHooks(metrics),           // Attaches monitoring hooks
		kgo.DisableAutoCommit(),          // Disables auto-commit
		kgo.BlockRebalanceOnPoll(),       // Blocks rebalancing until the poll loop is running
	}

	client, err := kgo.NewClient(opts...)
	if err != nil || client == nil {
		return nil, err
	}

	c.Client = client
	return c, nil
}

// Poll polls for records from the Kafka broker.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.Client.Close()

	consumerName := c.Config.Name
	recordsPerPoll := c.Config.RecordsPerPoll

	for {
		// Check if the context is canceled before polling
		if ctx.Err() != nil {
			c.Logger.Warn("Polling stopped: context canceled")
			return ctx.Err()
		}

		c.Logger.Debug(fmt.Sprintf("%s: polling for records", consumerName))
		fetches := c.Client.PollRecords(ctx, recordsPerPoll)

		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if errors.Is(fetches.Err0(), context.Canceled) {
			return errors.New("context got canceled")
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.Logger.Error("fetch failed", zap.String("topic", topic), zap.Int32("partition", partition), zap.Error(err))
		})

		records := make([]models.Record, len(fetches.Records()))
		for idx, record := range fetches.Records() {
			records[idx] = models.Record{
				Key:       record.Key,
				Value:     record.Value,
				Topic:     record.Topic,
				Partition: record.Partition,
				Offset:    record.Offset,
			}
		}

		c.handle(ctx, records)

		// The batch is committed either stored or parked in the dead letter queue
		if err := c.Client.CommitRecords(ctx, fetches.Records()...); err != nil {
			c.Logger.Error("failed to commit records", zap.Error(err))
		}
		c.Client.AllowRebalance()
	}
}

func (c *Consumer) handle(ctx context.Context, records []models.Record) {
	if len(records) == 0 {
		return
	}
	err := c.Processor.ProcessRecords(ctx, records)
	if err == nil {
		return
	}

	c.Logger.Error("Failed to process records, sending to dead letter queue", zap.Int("count", len(records)), zap.Error(err))
	if dlqErr := c.DLQ.Send(ctx, records); dlqErr != nil {
		c.Logger.Error("failed to send records to dead letter queue", zap.Error(dlqErr))
	}
}
