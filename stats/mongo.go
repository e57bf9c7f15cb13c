package stats

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"imagetools/config"
	"time"
)

type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

type Mongo struct {
	collection Inserter
	client     *mongo.Client
}

func NewMongo(conf config.Mongo) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &Mongo{
		collection: client.Database(conf.Database).Collection(conf.Collection),
		client:     client,
	}, nil
}

func NewMongoFromCollection(collection Inserter) *Mongo {
	return &Mongo{collection: collection}
}

func (m *Mongo) Record(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if _, err := m.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert conversion event: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
