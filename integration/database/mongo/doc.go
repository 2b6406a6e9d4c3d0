// Package mongo stores graph documents in MongoDB.
//
// New and NewWithDatabase wrap the official v2 driver with retries that
// cover cold starts and short network interruptions. Backend implements
// graph.Backend over a single collection shared by many graphs.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(ctx)
//
//	coll := db.Collection(cfg.Collection)
//	if err := mongo.EnsureIndexes(ctx, coll); err != nil {
//		return err
//	}
//	store := graph.NewStore(mongo.NewBackend(coll, "doc-42"))
//
// # Configuration
//
//	MONGODB_URL                 (required)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//	MONGODB_DATABASE            (default: graphedit)
//	MONGODB_COLLECTION          (default: graph_entities)
//
// # Errors
//
//	ErrEmptyConnectionURL     - no URL configured
//	ErrFailedToConnectToMongo - all retry attempts are exhausted
//	ErrHealthcheckFailed      - the health check ping failed
package mongo
