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
)

// IncidentQueue keeps CRITICAL payment failures for operators: the full
// incident under "critical:{authority}" and the key on a list in arrival order.
type IncidentQueue struct {
	client   redis.Cmdable
	listName string
}

func NewIncidentQueue(client redis.Cmdable) *IncidentQueue {
	return &IncidentQueue{client: client, listName: "critical-incidents"}
}

func (q *IncidentQueue) Report(ctx context.Context, incident models.CriticalIncident) error {
	data, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident: %w", err)
	}

	key := fmt.Sprintf("critical:%s", incident.Authority)
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.RPush(ctx, q.listName, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to queue incident %s: %w", key, err)
	}
	return nil
}

// Pending returns the queued incidents, oldest first. An authority reported
// twice shows its latest incident once.
func (q *IncidentQueue) Pending(ctx context.Context) ([]models.CriticalIncident, error) {
	keys, err := q.client.LRange(ctx, q.listName, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(keys))
	incidents := make([]models.CriticalIncident, 0, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		data, err := q.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}

		var incident models.CriticalIncident
		if err := json.Unmarshal(data, &incident); err != nil {
			return nil, fmt.Errorf("incident %s: %w", key, err)
		}
		incidents = append(incidents, incident)
	}
	return incidents, nil
}
