package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Compile-time check that Backend implements graph.Backend.
var _ graph.Backend = (*Backend)(nil)

type document struct {
	ID        string    `bson:"_id"`
	GraphID   string    `bson:"graph_id"`
	Kind      string    `bson:"kind"`
	EntityID  string    `bson:"entity_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Backend stores every entity of a graph as one document in a shared collection.
// The document _id is "<graph id>/<kind>/<entity id>", so the primary key
// index enforces uniqueness. The entity JSON is kept verbatim in data.
type Backend struct {
	coll    *mongo.Collection
	graphID string
}

// NewBackend returns a backend for graphID.
func NewBackend(coll *mongo.Collection, graphID string) *Backend {
	return &Backend{coll: coll, graphID: graphID}
}

func (b *Backend) docID(kind graph.Kind, id string) string {
	return b.graphID + "/" + string(kind) + "/" + id
}

func (b *Backend) Get(ctx context.Context, kind graph.Kind, id string) ([]byte, error) {
	var doc document
	err := b.coll.FindOne(ctx, bson.D{{Key: "_id", Value: b.docID(kind, id)}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return []byte(doc.Data), nil
}

func (b *Backend) Insert(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	_, err := b.coll.InsertOne(ctx, document{
		ID:        b.docID(kind, id),
		GraphID:   b.graphID,
		Kind:      string(kind),
		EntityID:  id,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return graph.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	res, err := b.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: b.docID(kind, id)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "data", Value: string(data)},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind graph.Kind, id string) error {
	res, err := b.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: b.docID(kind, id)}})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) List(ctx context.Context, kind graph.Kind) ([][]byte, error) {
	cur, err := b.coll.Find(ctx,
		bson.D{{Key: "graph_id", Value: b.graphID}, {Key: "kind", Value: string(kind)}},
		options.Find().SetSort(bson.D{{Key: "entity_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	out := make([][]byte, 0, len(docs))
	for _, d := range docs {
		out = append(out, []byte(d.Data))
	}
	return out, nil
}

// Purge removes every document of the graph.
func (b *Backend) Purge(ctx context.Context) error {
	if _, err := b.coll.DeleteMany(ctx, bson.D{{Key: "graph_id", Value: b.graphID}}); err != nil {
		return fmt.Errorf("purge graph %q: %w", b.graphID, err)
	}
	return nil
}

// EnsureIndexes creates the secondary index used by List.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "graph_id", Value: 1},
			{Key: "kind", Value: 1},
			{Key: "entity_id", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create graph index: %w", err)
	}
	return nil
}
