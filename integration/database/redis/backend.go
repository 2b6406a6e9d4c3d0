package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Compile-time check that Backend implements graph.Backend.
var _ graph.Backend = (*Backend)(nil)

// replaceScript overwrites a hash field only when it already exists.
var replaceScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Backend keeps one hash per entity kind: <prefix>:<graph>:<kind> -> {id: json}.
type Backend struct {
	client  redis.UniversalClient
	prefix  string
	graphID string
}

// NewBackend returns a backend for graphID. An empty prefix defaults to "graphedit".
func NewBackend(client redis.UniversalClient, prefix, graphID string) *Backend {
	if prefix == "" {
		prefix = "graphedit"
	}
	return &Backend{client: client, prefix: prefix, graphID: graphID}
}

func (b *Backend) key(kind graph.Kind) string {
	return b.prefix + ":" + b.graphID + ":" + string(kind)
}

func (b *Backend) Get(ctx context.Context, kind graph.Kind, id string) ([]byte, error) {
	data, err := b.client.HGet(ctx, b.key(kind), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s: %w", kind, err)
	}
	return data, nil
}

func (b *Backend) Insert(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	ok, err := b.client.HSetNX(ctx, b.key(kind), id, data).Result()
	if err != nil {
		return fmt.Errorf("hsetnx %s: %w", kind, err)
	}
	if !ok {
		return graph.ErrAlreadyExists
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	n, err := replaceScript.Run(ctx, b.client, []string{b.key(kind)}, id, data).Int()
	if err != nil {
		return fmt.Errorf("replace %s: %w", kind, err)
	}
	if n == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind graph.Kind, id string) error {
	n, err := b.client.HDel(ctx, b.key(kind), id).Result()
	if err != nil {
		return fmt.Errorf("hdel %s: %w", kind, err)
	}
	if n == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) List(ctx context.Context, kind graph.Kind) ([][]byte, error) {
	all, err := b.client.HGetAll(ctx, b.key(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", kind, err)
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([][]byte, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, []byte(all[id]))
	}
	return docs, nil
}

// Purge removes every hash of the graph.
func (b *Backend) Purge(ctx context.Context) error {
	keys := make([]string, 0, len(graph.Kinds()))
	for _, k := range graph.Kinds() {
		keys = append(keys, b.key(k))
	}
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("purge graph %q: %w", b.graphID, err)
	}
	return nil
}
