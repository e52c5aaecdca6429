package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spigell/staffmatch/internal/candidate"
)

const (
	defaultMongoDatabase   = "CVDatabase"
	defaultMongoCollection = "Resumes"
)

type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}

	if database = strings.TrimSpace(database); database == "" {
		database = defaultMongoDatabase
	}
	if collection = strings.TrimSpace(collection); collection == "" {
		collection = defaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// LoadAll returns every document in natural order, converted to plain Go values.
func (m *Mongo) LoadAll(ctx context.Context) ([]candidate.Record, error) {
	cursor, err := m.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}

	records := make([]candidate.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, candidate.Record(normalizeMap(doc)))
	}

	return records, nil
}

func (m *Mongo) Insert(ctx context.Context, rec candidate.Record) (string, error) {
	doc, id := mongoDocument(rec)

	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert candidate %s: %w", id, err)
	}

	return id, nil
}

// mongoDocument makes _id carry the reported id, so LoadAll returns the same one.
func mongoDocument(rec candidate.Record) (bson.M, string) {
	doc, id := withID(rec, "_id")
	if v, ok := doc["_id"]; !ok || v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
		doc["_id"] = id
	}
	return bson.M(doc), id
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, normalizeValue(item))
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, normalizeValue(item))
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	default:
		return v
	}
}
