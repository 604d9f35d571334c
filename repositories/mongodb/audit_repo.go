package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	errors "pay-broker/errors"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

type AuditRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewAuditRepository(client *mongo.Client, database string) *AuditRepository {
	return &AuditRepository{client: client, database: database, collection: "audit_events"}
}

// InsertEvents inserts a batch of audit events. Events already stored (same
// _id, from a redelivered batch) are skipped.
func (r *AuditRepository) InsertEvents(ctx context.Context, events []interface{}) error {
	collection := r.client.Database(r.database).Collection(r.collection)
	_, err := collection.InsertMany(ctx, events, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && bulkErr.WriteConcernError == nil && onlyDuplicates(bulkErr.WriteErrors) {
		return nil
	}
	return err
}

func onlyDuplicates(writeErrs []mongo.BulkWriteError) bool {
	if len(writeErrs) == 0 {
		return false
	}
	for _, we := range writeErrs {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}
