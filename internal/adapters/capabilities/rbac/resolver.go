package rbac

import (
	"context"
	"strconv"
	"time"

	"pet-store-console/internal/ports/cache"
	"pet-store-console/internal/ports/capabilities"

	"github.com/pkg/errors"
)

const DefaultTTL = 5 * time.Minute

// Resolver implementa capabilities.CapabilitiesResolver con los permisos del
// rol. Los administradores pasan siempre.
type Resolver struct {
	client   *Client
	cache    cache.Store
	ttl      time.Duration
	allowAll bool
}

type Options struct {
	Cache cache.Store
	TTL   time.Duration
	// AllowAll aprueba todo sin consultar (modo desarrollo).
	AllowAll bool
}

func NewResolver(client *Client, opts Options) *Resolver {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{client: client, cache: opts.Cache, ttl: ttl, allowAll: opts.AllowAll}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	capability := normalize(in.Capability)
	if capability == "" {
		return false, errors.New("capability required")
	}
	if r.allowAll || in.Admin {
		return true, nil
	}
	if in.RoleID <= 0 {
		return false, nil
	}

	perms, err := r.Resolve(ctx, in.RoleID)
	if err != nil {
		return false, err
	}
	return perms[capability], nil
}

// Resolve devuelve los permisos del rol, pasando por el caché.
func (r *Resolver) Resolve(ctx context.Context, rolID int) (map[string]bool, error) {
	key := "rbac:rol:" + strconv.Itoa(rolID)
	if r.cache != nil {
		var cached map[string]bool
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	perms, err := r.client.PermisosDeRol(ctx, rolID)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		_ = r.cache.Set(ctx, key, perms, r.ttl)
	}
	return perms, nil
}

// Invalidate descarta el caché de un rol (tras editar sus permisos).
func (r *Resolver) Invalidate(ctx context.Context, rolID int) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, "rbac:rol:"+strconv.Itoa(rolID))
}
