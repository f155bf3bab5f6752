package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"filemeta/internal/config"
	"filemeta/internal/database/migration"
)

// Store is the connected document store for one process lifetime.
// Exactly one of Mongo or SQL is set, depending on Driver.
type Store struct {
	Driver string
	Mongo  *mongo.Client
	SQL    *sql.DB

	mongoCfg config.MongoConfig
	sqlHost  string
}

// Open connects to the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.AppConfig) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: cfg.StoreDriver, Mongo: client, mongoCfg: cfg.Mongo}, nil
	case config.DriverPostgres:
		db, err := NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: cfg.StoreDriver, SQL: db, sqlHost: cfg.Database.Host}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// Collection is the Mongo collection holding file metadata.
func (s *Store) Collection() *mongo.Collection {
	return s.Mongo.Database(s.mongoCfg.Database).Collection(s.mongoCfg.Collection)
}

// Migrate makes sure the collection or table exists.
func (s *Store) Migrate(ctx context.Context) error {
	if s.Mongo != nil {
		return migration.EnsureCollection(ctx, s.Mongo.Database(s.mongoCfg.Database), s.mongoCfg.Collection)
	}
	return migration.EnsureMigrated(ctx, s.SQL, s.sqlHost)
}

// Ping checks connectivity; it backs the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if s.Mongo != nil {
		return s.Mongo.Ping(ctx, readpref.Primary())
	}
	return s.SQL.PingContext(ctx)
}

// Close disconnects from the store.
func (s *Store) Close(ctx context.Context) error {
	if s.Mongo != nil {
		return s.Mongo.Disconnect(ctx)
	}
	return s.SQL.Close()
}
