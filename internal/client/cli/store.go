package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/console/internal/client/config"
	"github.com/dmitrijs2005/console/internal/client/credentials"
	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/filex"
)

// openStore builds the credential store selected by cfg. The jar backend
// stores into jar, which must be the jar of the transport client. The
// returned close function releases the backend connection.
//
// The remembered login is sealed when SealSecret is set. Tokens of logins
// that are not remembered never reach the durable backend.
func openStore(ctx context.Context, cfg *config.Config, jar http.CookieJar) (credentials.Store, func() error, error) {
	var (
		durable credentials.Store
		closeFn = func() error { return nil }
	)

	switch cfg.StoreBackend {
	case config.StoreSQLite:
		if _, err := filex.EnsureParentDir(cfg.StoreDSN); err != nil {
			return nil, nil, err
		}
		s, err := credentials.OpenSQLite(ctx, cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		durable, closeFn = s, s.Close

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		durable, closeFn = credentials.NewRedisStore(rdb, cfg.RedisPrefix), rdb.Close

	case config.StoreMemory:
		durable = credentials.NewMemoryStore()

	case config.StoreJar:
		s, err := credentials.NewJarStore(jar, cfg.ServerBaseURL)
		if err != nil {
			return nil, nil, err
		}
		durable = s

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.SealSecret != "" {
		durable = credentials.NewSealedStore(durable, []byte(cfg.SealSecret), common.LoginInfoKey)
	}

	return credentials.NewScopedStore(durable), closeFn, nil
}
