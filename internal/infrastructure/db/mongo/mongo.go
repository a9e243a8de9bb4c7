// Package mongo holds the MongoDB connection and the authentication audit
// trail repository.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "blooddb-donation-api"
)

// Config selects the deployment and database holding the audit trail.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Store owns the client and exposes the audit database.
type Store struct {
	client  *mongo.Client
	DB      *mongo.Database
	timeout time.Duration
}

// Open connects, pings the primary and selects cfg.Database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	opts := clientOptions(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, *opts.ServerSelectionTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{client: client, DB: client.Database(cfg.Database), timeout: *opts.ServerSelectionTimeout}, nil
}

// Close disconnects, waiting at most the configured timeout for in-flight
// operations.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func clientOptions(cfg Config) *options.ClientOptions {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts
}
