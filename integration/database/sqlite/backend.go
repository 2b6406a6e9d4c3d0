package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Compile-time check that Backend implements graph.Backend.
var _ graph.Backend = (*Backend)(nil)

// Backend stores the entities of one graph.
type Backend struct {
	db      *sql.DB
	graphID string
}

func (b *Backend) Get(ctx context.Context, kind graph.Kind, id string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT data FROM graph_entities WHERE graph_id = ? AND kind = ? AND id = ?`,
		b.graphID, string(kind), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return data, nil
}

func (b *Backend) Insert(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO graph_entities (graph_id, kind, id, data, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.graphID, string(kind), id, data, time.Now().UTC().UnixMilli(),
	)
	if isUniqueViolation(err) {
		return graph.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, kind graph.Kind, id string, data []byte) error {
	res, err := b.db.ExecContext(ctx,
		`UPDATE graph_entities SET data = ?, updated_at = ? WHERE graph_id = ? AND kind = ? AND id = ?`,
		data, time.Now().UTC().UnixMilli(), b.graphID, string(kind), id,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return requireAffected(res)
}

func (b *Backend) Delete(ctx context.Context, kind graph.Kind, id string) error {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM graph_entities WHERE graph_id = ? AND kind = ? AND id = ?`,
		b.graphID, string(kind), id,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return requireAffected(res)
}

func (b *Backend) List(ctx context.Context, kind graph.Kind) ([][]byte, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT data FROM graph_entities WHERE graph_id = ? AND kind = ? ORDER BY id`,
		b.graphID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		docs = append(docs, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return docs, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return graph.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
