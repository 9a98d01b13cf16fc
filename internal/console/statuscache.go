package console

import (
	"context"
	"strconv"
	"time"

	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
)

// Claves históricas de caché (las mismas que usaba el navegador).
const (
	KeyClientesEstados    = "clientesEstados"
	KeyMascotasEstados    = "mascotasEstados"
	KeyMascotasData       = "mascotasData"
	KeyComprasCache       = "compras_cache"
	KeyComprasEstados     = "compras_estados"
	KeyProveedoresEstados = "proveedoresEstados"
)

// StatusCache recuerda el último estado escrito desde la consola para cada
// registro de un recurso. Se usa cuando el API devuelve registros sin estado.
type StatusCache struct {
	store cache.Store
	key   string
	ttl   time.Duration
}

func NewStatusCache(store cache.Store, key string, ttl time.Duration) *StatusCache {
	return &StatusCache{store: store, key: key, ttl: ttl}
}

func (s *StatusCache) Key() string { return s.key }

// Load devuelve id -> activo. Un fallo de caché se trata como vacío.
func (s *StatusCache) Load(ctx context.Context) map[int]bool {
	out := map[int]bool{}
	if s == nil || s.store == nil {
		return out
	}
	var raw map[string]bool
	if err := s.store.Get(ctx, s.key, &raw); err != nil {
		return out
	}
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

// Record guarda el estado de un registro (última escritura gana).
func (s *StatusCache) Record(ctx context.Context, id int, activo bool) error {
	return s.update(ctx, func(m map[int]bool) { m[id] = activo })
}

// Merge guarda varios estados a la vez.
func (s *StatusCache) Merge(ctx context.Context, estados map[int]bool) error {
	if len(estados) == 0 {
		return nil
	}
	return s.update(ctx, func(m map[int]bool) {
		for id, v := range estados {
			m[id] = v
		}
	})
}

func (s *StatusCache) Forget(ctx context.Context, id int) error {
	return s.update(ctx, func(m map[int]bool) { delete(m, id) })
}

func (s *StatusCache) update(ctx context.Context, fn func(map[int]bool)) error {
	if s == nil || s.store == nil {
		return nil
	}
	m := s.Load(ctx)
	fn(m)

	raw := make(map[string]bool, len(m))
	for id, v := range m {
		raw[strconv.Itoa(id)] = v
	}
	if err := s.store.Set(ctx, s.key, raw, s.ttl); err != nil {
		return errors.Wrapf(err, "status cache %s", s.key)
	}
	return nil
}
