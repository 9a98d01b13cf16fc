package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Store es un almacén clave/valor con expiración. Los valores se guardan como
// JSON; Get decodifica en dst y devuelve ErrMiss si la clave no existe o expiró.
type Store interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
