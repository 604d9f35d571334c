package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect connects to the mongodb server and returns the client.
func Connect(ctx context.Context, uri, appName string) (*mongo.Client, error) {
	timeout := time.Second * 5
	opts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// A client that cannot reach the server is useless to both commands.
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
