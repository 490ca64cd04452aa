package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// CloseFunc releases the resources held by a store.
type CloseFunc func(context.Context) error

// Open connects the backend named by cfg.URI's scheme and prepares its schema.
func Open(ctx context.Context, cfg database.Config, logger *zap.SugaredLogger) (Store, CloseFunc, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, nil, err
	}

	switch driver {
	case database.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		r := NewMongoRepo(client.Database(cfg.DatabaseName("auth-service")), cfg.Timeout)
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logger.Infow("store ready", "driver", driver, "database", cfg.DatabaseName("auth-service"))
		return r, client.Disconnect, nil

	case database.DriverPostgres:
		sqlDB, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		logger.Infow("store ready", "driver", driver)
		return NewUserRepo(sqlx.NewDb(sqlDB, "postgres"), cfg.Timeout), func(context.Context) error { return sqlDB.Close() }, nil

	default:
		logger.Warnw("using in-memory store; data is lost on restart")
		return NewMemoryRepo(), func(context.Context) error { return nil }, nil
	}
}
