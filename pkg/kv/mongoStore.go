package kv

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the queue in a collection of {_id, value} documents.
type MongoStore struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
	}
}

func (m *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	coll := m.client.Database(m.database).Collection(m.collection)

	var doc struct {
		Value []byte `bson:"value"`
	}
	err := coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

func (m *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	coll := m.client.Database(m.database).Collection(m.collection)

	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": key}, bson.M{"_id": key, "value": value}, opts)
	return err
}

func (m *MongoStore) Remove(ctx context.Context, key string) error {
	coll := m.client.Database(m.database).Collection(m.collection)
	_, err := coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *MongoStore) Keys(ctx context.Context) ([]string, error) {
	coll := m.client.Database(m.database).Collection(m.collection)

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Reload is a no-op: every operation round-trips to the server.
func (m *MongoStore) Reload(ctx context.Context) error { return nil }

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
