package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"filemeta/internal/config"
)

var mongoConnect = mongo.Connect

// ValidateMongoURI rejects connection strings the driver would refuse,
// before any network activity happens.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("invalid mongo config: uri is required")
	}
	if _, err := connstring.ParseAndValidate(uri); err != nil {
		return fmt.Errorf("invalid mongo uri: %w", err)
	}
	return nil
}

// NewMongo connects a traced MongoDB client and pings the primary.
// The client is safe for concurrent use; the caller owns Disconnect.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, error) {
	if err := ValidateMongoURI(c.URI); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(c.URI).
		SetMonitor(otelmongo.NewMonitor())
	if c.ConnectTimeout > 0 {
		opts.SetConnectTimeout(c.ConnectTimeout)
	}
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}

	client, err := mongoConnect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout(c))
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}

func pingTimeout(c config.MongoConfig) time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return 5 * time.Second
}
