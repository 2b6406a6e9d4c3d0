// Package sqlite stores graph documents in an embedded SQLite database.
//
// It uses the pure Go modernc.org/sqlite driver, so no cgo toolchain is
// needed. The schema matches the PostgreSQL backend: one graph_entities
// table keyed by graph id, kind and entity id. Migrations are embedded and
// applied with a goose provider when the database is opened.
//
//	db, err := sqlite.Open(ctx, "graph.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	store := graph.NewStore(db.Backend("doc-42"))
//
// Pass ":memory:" as the path for a throwaway database.
package sqlite
