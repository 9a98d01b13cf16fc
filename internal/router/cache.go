package router

import (
	"context"

	mem "pet-store-console/internal/adapters/storage/memory"
	pg "pet-store-console/internal/adapters/storage/postgres"
	rd "pet-store-console/internal/adapters/storage/redis"
	"pet-store-console/internal/config"
	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
)

// OpenCache elige el backend del caché según cache.driver. close libera la
// conexión (no hace nada en memoria).
func OpenCache(ctx context.Context, c config.Cache, app string) (store cache.Store, close func() error, err error) {
	switch c.Driver {
	case config.CacheRedis:
		rdb, err := rd.Open(c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rd.NewCache(rdb, app+":"), rdb.Close, nil

	case config.CachePostgres:
		db, err := pg.Open(c.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pc := pg.NewCache(db)
		if err := pc.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "migrate cache table")
		}
		return pc, db.Close, nil

	case config.CacheMemory, "":
		return mem.NewCache(), func() error { return nil }, nil
	}
	return nil, nil, errors.Errorf("unknown cache driver %q", c.Driver)
}
