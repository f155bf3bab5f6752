package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureCollection creates the named collection when it is missing.
// Only the default _id index is used, so nothing else is created.
func EnsureCollection(ctx context.Context, db *mongo.Database, name string) error {
	start := time.Now()
	logger := log.With().
		Str("component", "database").
		Str("db_name", db.Name()).
		Str("collection", name).
		Logger()

	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		logFailure(logger, "", err, start)
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) > 0 {
		logger.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("collection already exists, skipping migration")
		return nil
	}

	if err := db.CreateCollection(ctx, name); err != nil {
		logFailure(logger, "create_collection", err, start)
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	logger.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()
	return nil
}
