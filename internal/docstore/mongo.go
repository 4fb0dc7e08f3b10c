package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongo stores each collection as a mongo collection whose documents are
// {_id: key, data: <tree>}.
func NewMongo(db *mongo.Database) Store {
	return &tree{b: &mongoBackend{db: db}}
}

type mongoBackend struct {
	db *mongo.Database
}

type mongoDoc struct {
	Key       string    `bson:"_id"`
	Data      any       `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (m *mongoBackend) collection(ctx context.Context, coll string) (map[string]any, error) {
	cursor, err := m.db.Collection(coll).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(docs))
	for _, d := range docs {
		v, err := normalize(fromBSON(d.Data))
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", coll, d.Key, err)
		}
		out[d.Key] = v
	}
	return out, nil
}

func (m *mongoBackend) document(ctx context.Context, coll, key string) (any, error) {
	var d mongoDoc
	err := m.db.Collection(coll).FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalize(fromBSON(d.Data))
}

// mutate is a read followed by a replace. Mongo without a replica set has
// no multi-statement transactions, so a concurrent writer to the same key
// can interleave; last write wins.
func (m *mongoBackend) mutate(ctx context.Context, coll, key string, fn func(cur any) any) error {
	cur, err := m.document(ctx, coll, key)
	if err != nil {
		return err
	}
	next := prune(fn(cur))
	c := m.db.Collection(coll)
	if next == nil {
		_, err := c.DeleteOne(ctx, bson.M{"_id": key})
		return err
	}
	_, err = c.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoDoc{Key: key, Data: next, UpdatedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *mongoBackend) dropCollection(ctx context.Context, coll string) error {
	return m.db.Collection(coll).Drop(ctx)
}

// fromBSON converts driver container types into plain maps and slices.
func fromBSON(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = fromBSON(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = fromBSON(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	default:
		return v
	}
}
