// Package store holds the persistence layer: one Mongo-backed store per
// collection, the MinIO object store, the local-filesystem fallback, and
// the Redis cache client. Every document is keyed by an application
// generated id field so identifiers stay stable across storage backends.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by lookups that matched no document.
var ErrNotFound = errors.New("store: not found")

// Connect dials MongoDB and pings it before returning the database handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
