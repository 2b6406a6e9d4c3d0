package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/graphedit/core/config"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/healthcheck"
	"github.com/dmitrymomot/graphedit/integration/database/mongo"
	"github.com/dmitrymomot/graphedit/integration/database/pg"
	"github.com/dmitrymomot/graphedit/integration/database/redis"
	"github.com/dmitrymomot/graphedit/integration/database/sqlite"
)

// backend is an opened storage backend with its probe and cleanup.
type backend struct {
	graph.Backend
	check healthcheck.Check
	close func()
}

func openBackend(ctx context.Context, cfg Config, log *slog.Logger) (*backend, error) {
	switch cfg.Backend {
	case backendMemory:
		return &backend{Backend: graph.NewMemoryBackend(), close: func() {}}, nil

	case backendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{
			Backend: db.Backend(cfg.GraphID),
			check:   db.Healthcheck,
			close:   func() { _ = db.Close() },
		}, nil

	case backendPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{
			Backend: pg.NewBackend(pool, cfg.GraphID),
			check:   pg.Healthcheck(pool),
			close:   pool.Close,
		}, nil

	case backendRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return &backend{
			Backend: redis.NewBackend(client, redisCfg.KeyPrefix, cfg.GraphID),
			check:   redis.Healthcheck(client),
			close:   func() { _ = client.Close() },
		}, nil

	case backendMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
		if err != nil {
			return nil, err
		}
		coll := db.Collection(mongoCfg.Collection)
		if err := mongo.EnsureIndexes(ctx, coll); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return &backend{
			Backend: mongo.NewBackend(coll, cfg.GraphID),
			check:   mongo.Healthcheck(db.Client()),
			close:   func() { _ = db.Client().Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
