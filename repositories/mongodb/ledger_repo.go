package mongodb

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	errors "pay-broker/errors"
	models "pay-broker/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LedgerRepository stores one document per authority, keyed by _id.
type LedgerRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewLedgerRepository(client *mongo.Client, database string) *LedgerRepository {
	return &LedgerRepository{client: client, database: database, collection: "transactions"}
}

// InsertTransaction records a new authority. It never overwrites.
func (r *LedgerRepository) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	collection := r.client.Database(r.database).Collection(r.collection)
	_, err := collection.InsertOne(ctx, tx.Transform())
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateAuthority, tx.Authority)
	}
	return err
}

// FindTransaction looks up an authority by primary key.
func (r *LedgerRepository) FindTransaction(ctx context.Context, authority string) (models.Transaction, error) {
	collection := r.client.Database(r.database).Collection(r.collection)

	var doc models.MongoTransaction
	err := collection.FindOne(ctx, bson.M{"_id": authority}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Transaction{}, errors.ErrAuthorityNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return doc.Transaction(), nil
}
