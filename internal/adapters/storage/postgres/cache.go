package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS console_cache (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	expires_at TIMESTAMPTZ NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Cache implementa cache.Store sobre una tabla console_cache.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Migrate crea la tabla si no existe.
func (c *Cache) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "migrate console_cache")
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string, dst any) error {
	row := c.db.QueryRowContext(ctx, `
		SELECT value
		FROM console_cache
		WHERE key = $1
		  AND (expires_at IS NULL OR expires_at > $2)
	`, key, c.now())

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cache.ErrMiss
		}
		return errors.Wrapf(err, "postgres cache get %s", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(err, "postgres cache decode %s", key)
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "postgres cache encode %s", key)
	}

	now := c.now()
	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO console_cache (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`, key, string(b), expires, now)
	if err != nil {
		return errors.Wrapf(err, "postgres cache set %s", key)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM console_cache WHERE key = $1`, key); err != nil {
		return errors.Wrapf(err, "postgres cache delete %s", key)
	}
	return nil
}

// Purge borra las entradas vencidas; devuelve cuántas.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM console_cache WHERE expires_at IS NOT NULL AND expires_at <= $1`, c.now())
	if err != nil {
		return 0, errors.Wrap(err, "postgres cache purge")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
