// Package redis stores graph documents in Redis hashes.
//
// Connect wraps go-redis with URL validation, a connect timeout and
// retries. Backend implements graph.Backend with one hash per entity
// kind, keyed "<prefix>:<graph id>:<kind>":
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := graph.NewStore(redis.NewBackend(client, cfg.KeyPrefix, "doc-42"))
//
// Insert uses HSETNX and Replace runs a small Lua script, so both are
// atomic on the server.
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"graphedit"`
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Errors
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL or unsupported scheme
//   - ErrRedisNotReady: no successful ping before retries ran out
//   - ErrHealthcheckFailed: the health check ping failed
package redis
