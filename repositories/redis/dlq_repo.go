package redis

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	models "pay-broker/models"

	// External Packages
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type DeadLetterQueue struct {
	client   redis.Cmdable
	logger   *zap.Logger
	listName string
}

func NewDeadLetterQueue(client redis.Cmdable, logger *zap.Logger) *DeadLetterQueue {
	return &DeadLetterQueue{client: client, logger: logger, listName: "failed-audit-events"}
}

// Send parks audit records that could not be stored under
// "audit:{topic}:{partition}:{offset}" and lists the keys for replay.
func (r *DeadLetterQueue) Send(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	successCount := 0
	for _, record := range records {
		jsonData, err := json.Marshal(record)
		if err != nil {
			r.logger.Error("failed to marshal record", zap.Error(err))
			continue
		}

		key := fmt.Sprintf("audit:%s", record.Position())
		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, 0)
			pipe.RPush(ctx, r.listName, key)
			return nil
		})
		if err != nil {
			r.logger.Error("failed to store record", zap.String("key", key), zap.Error(err))
			continue
		}
		successCount++
	}

	if successCount > 0 {
		r.logger.Info("successfully sent records", zap.Int("count", successCount))
	}
	if successCount < len(records) {
		return fmt.Errorf("%d of %d records not stored", len(records)-successCount, len(records))
	}
	return nil
}
