package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Compile-time check that Backend implements graph.Backend.
var _ graph.Backend = (*Backend)(nil)

// Backend stores graph entities in the graph_entities table.
// Each backend is scoped to one graph id, so many documents share a table.
type Backend struct {
	pool    *pgxpool.Pool
	graphID string
}

// NewBackend returns a backend for the given graph. Run Migrate first.
func NewBackend(pool *pgxpool.Pool, graphID string) *Backend {
	return &Backend{pool: pool, graphID: graphID}
}

// GraphID returns the id of the graph the backend is scoped to.
func (b *Backend) GraphID() string { return b.graphID }

func (b *Backend) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return b.pool
}

func (b *Backend) Get(ctx context.Context, kind graph.Kind, id string) ([]byte, error) {
	const q = `SELECT data FROM graph_entities WHERE graph_id = $1 AND kind = $2 AND id = $3`

	var data []byte
	if err := b.db(ctx).QueryRow(ctx, q, b.graphID, string(kind), id).Scan(&data); err != nil {
		if IsNotFoundError(err) {
			return nil, graph.ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return data, nil
}

func (b *Backend) Insert(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	const q = `INSERT INTO graph_entities (graph_id, kind, id, data) VALUES ($1, $2, $3, $4)`

	if _, err := b.db(ctx).Exec(ctx, q, b.graphID, string(kind), id, data); err != nil {
		if IsDuplicateKeyError(err) {
			return graph.ErrAlreadyExists
		}
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	const q = `UPDATE graph_entities SET data = $4, updated_at = now()
		WHERE graph_id = $1 AND kind = $2 AND id = $3`

	tag, err := b.db(ctx).Exec(ctx, q, b.graphID, string(kind), id, data)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind graph.Kind, id string) error {
	const q = `DELETE FROM graph_entities WHERE graph_id = $1 AND kind = $2 AND id = $3`

	tag, err := b.db(ctx).Exec(ctx, q, b.graphID, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func (b *Backend) List(ctx context.Context, kind graph.Kind) ([][]byte, error) {
	const q = `SELECT data FROM graph_entities WHERE graph_id = $1 AND kind = $2 ORDER BY id`

	rows, err := b.db(ctx).Query(ctx, q, b.graphID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return docs, nil
}

// Purge deletes every entity of the graph.
func (b *Backend) Purge(ctx context.Context) error {
	const q = `DELETE FROM graph_entities WHERE graph_id = $1`
	if _, err := b.db(ctx).Exec(ctx, q, b.graphID); err != nil {
		return fmt.Errorf("purge graph %q: %w", b.graphID, err)
	}
	return nil
}
