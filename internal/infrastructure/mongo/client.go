package mongo

import (
	"context"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/fastygo/taskservice/internal/config"
)

// NewClient connects to MongoDB and pings the primary. An unreachable server
// is logged and the client is still returned: the driver reconnects on its own
// and the health monitor reports the outage.
func NewClient(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongodrv.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongodrv.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Error("mongodb connection error", zap.String("database", cfg.Database), zap.Error(err))
		return client, nil
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return client, nil
}

// Collection resolves the task collection from configuration.
func Collection(client *mongodrv.Client, cfg config.MongoConfig) *mongodrv.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}
