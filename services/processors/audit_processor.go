package processors

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	models "pay-broker/models"

	// External Packages
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuditRepository interface {
	InsertEvents(ctx context.Context, events []interface{}) error
}

type AuditProcessor struct {
	Logger    *zap.Logger
	AuditRepo AuditRepository
}

func NewAuditProcessor(logger *zap.Logger, auditRepo AuditRepository) *AuditProcessor {
	return &AuditProcessor{AuditRepo: auditRepo, Logger: logger}
}

// ProcessRecords stores a batch of audit events. Records that are not valid
// events are logged and skipped.
func (p *AuditProcessor) ProcessRecords(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	var events []interface{}
	for _, record := range records {
		var event models.AuditEvent
		err := json.Unmarshal(record.Value, &event)
		if err != nil {
			p.Logger.Error("failed to unmarshal audit event", zap.ByteString("key", record.Key), zap.Error(err))
			continue
		}
		if event.ID == "" {
			p.Logger.Error("audit event without id", zap.ByteString("key", record.Key))
			continue
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return nil
	}

	err := p.AuditRepo.InsertEvents(ctx, events)
	if err != nil {
		return fmt.Errorf("failed to insert audit events: %w", err)
	}
	return nil
}
