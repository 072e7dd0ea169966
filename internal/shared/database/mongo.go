package database

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds connection settings for the session and mint ledger store
type MongoConfig struct {
	URI            string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName   string        `env:"MONGODB_DATABASE" envDefault:"nft_drop"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"30s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"10"`
	MinPoolSize    uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"2"`
}

// LoadMongoConfig reads MongoConfig from the environment
func LoadMongoConfig() (*MongoConfig, error) {
	cfg := &MongoConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load mongodb configuration: %w", err)
	}
	return cfg, nil
}

// ConnectMongo connects and pings, returning the configured database
func ConnectMongo(ctx context.Context, cfg *MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(cfg.DatabaseName), nil
}
