package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskservice/internal/config"
	boltInfra "github.com/fastygo/taskservice/internal/infrastructure/bolt"
	mongoInfra "github.com/fastygo/taskservice/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/taskservice/internal/infrastructure/postgres"
	"github.com/fastygo/taskservice/internal/services/lifecycle"
	"github.com/fastygo/taskservice/repository"
	boltRepo "github.com/fastygo/taskservice/repository/bolt"
	mongoRepo "github.com/fastygo/taskservice/repository/mongo"
	pgRepo "github.com/fastygo/taskservice/repository/postgres"
)

// openStore connects the backend selected by STORE_DRIVER and registers its
// shutdown hook. Network stores that are down at startup do not stop the
// server; only configuration errors and an unopenable bolt file do.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (repository.TaskRepository, error) {
	clock := repository.SystemClock

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("mongodb connection failed: %w", err)
		}
		manager.Register("mongodb", client.Disconnect)
		return mongoRepo.NewTaskRepository(mongoInfra.Collection(client, cfg.Mongo), clock), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			logger.Error("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
		return pgRepo.NewTaskRepository(pool, clock), nil

	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Bolt.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		manager.Register("bolt", func(context.Context) error {
			return db.Close()
		})
		return boltRepo.NewTaskRepository(db, cfg.Bolt.Bucket, clock)
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
