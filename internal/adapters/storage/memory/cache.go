package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero = sin expiración
}

// Cache es la implementación en memoria de cache.Store (modo dev y tests).
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func (c *Cache) Get(ctx context.Context, key string, dst any) error {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return cache.ErrMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return cache.ErrMiss
	}
	if err := json.Unmarshal(e.value, dst); err != nil {
		return errors.Wrapf(err, "memory cache: decode %s", key)
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("memory cache: empty key")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "memory cache: encode %s", key)
	}

	e := entry{value: b}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}
