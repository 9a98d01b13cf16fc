package crud

import (
	"context"
	"time"

	"pet-store-console/internal/ports/cache"

	"github.com/pkg/errors"
)

// Snapshot guarda la última lista conocida de un recurso para mostrarla
// cuando el API no responde.
type Snapshot[V any] struct {
	store cache.Store
	key   string
	ttl   time.Duration
	id    func(V) int
}

func NewSnapshot[V any](store cache.Store, key string, ttl time.Duration, id func(V) int) *Snapshot[V] {
	return &Snapshot[V]{store: store, key: key, ttl: ttl, id: id}
}

func (s *Snapshot[V]) Key() string { return s.key }

func (s *Snapshot[V]) Load(ctx context.Context) ([]V, bool) {
	if s.store == nil {
		return nil, false
	}
	var items []V
	if err := s.store.Get(ctx, s.key, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *Snapshot[V]) Save(ctx context.Context, items []V) error {
	if s.store == nil {
		return nil
	}
	if items == nil {
		items = []V{}
	}
	return errors.Wrapf(s.store.Set(ctx, s.key, items, s.ttl), "snapshot %s", s.key)
}

// Upsert reemplaza el registro con el mismo id o lo agrega al final.
func (s *Snapshot[V]) Upsert(ctx context.Context, v V) error {
	items, _ := s.Load(ctx)
	id := s.id(v)
	for i := range items {
		if s.id(items[i]) == id {
			items[i] = v
			return s.Save(ctx, items)
		}
	}
	return s.Save(ctx, append(items, v))
}

func (s *Snapshot[V]) Remove(ctx context.Context, id int) error {
	items, ok := s.Load(ctx)
	if !ok {
		return nil
	}
	out := items[:0]
	for _, it := range items {
		if s.id(it) != id {
			out = append(out, it)
		}
	}
	return s.Save(ctx, out)
}

func (s *Snapshot[V]) Clear(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return errors.Wrapf(s.store.Delete(ctx, s.key), "snapshot %s", s.key)
}
