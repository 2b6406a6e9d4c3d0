// Package pg stores graph documents in PostgreSQL.
//
// It wraps the pgx driver with retry-aware connection setup, embedded goose
// migrations and a graph.Backend implementation over a single
// graph_entities table. Every backend is scoped to one graph id, so many
// documents can live in the same database.
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"graphedit_migrations"`
//	}
//
// Load it with config.Load like any other component config.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
//	store := graph.NewStore(pg.NewBackend(pool, "doc-42"))
//
// # Transactions
//
// A pgx.Tx attached with WithTx is picked up by the backend, so a batch of
// store writes can share one transaction:
//
//	tx, _ := pool.Begin(ctx)
//	ctx = pg.WithTx(ctx, tx)
//	_ = store.AddNode(ctx, node)
//	_ = tx.Commit(ctx)
//
// # Errors
//
// Missing rows map to graph.ErrNotFound and unique violations to
// graph.ErrAlreadyExists. IsNotFoundError, IsDuplicateKeyError,
// IsForeignKeyViolationError and IsTxClosedError classify raw driver errors.
package pg
