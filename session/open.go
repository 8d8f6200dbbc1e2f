package session

import (
	"context"
	"fmt"

	"roomrental/config"
	"roomrental/database"
	"roomrental/utils"

	"go.uber.org/zap"
)

const sessionCollection = "sessions"

// Open builds the Store selected by cfg.SessionBackend. The returned close func
// releases any backend connection and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SessionBackend {
	case "", "memory":
		return NewMemoryStore(), noop, nil
	case "file":
		return NewFileStore(cfg.SessionFile, logger), noop, nil
	case "redis":
		client, err := utils.NewSessionRedisClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, cfg.SessionNamespace, logger), client.Close, nil
	case "mongo":
		client, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(sessionCollection)
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return NewMongoStore(coll, cfg.SessionNamespace, logger), closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
