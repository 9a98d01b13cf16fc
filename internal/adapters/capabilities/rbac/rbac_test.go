package rbac

import (
	"context"
	"net/http"
	"testing"

	"pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/ports/capabilities"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, opts Options) (*Resolver, *upstreamtest.Server) {
	t.Helper()
	srv := upstreamtest.New(t)
	srv.Table(upstream.PathPermisos, "IdPermiso",
		map[string]any{"IdPermiso": 1, "NombrePermiso": "Clientes"},
		map[string]any{"IdPermiso": 2, "NombrePermiso": "Citas"},
	)
	srv.Table(upstream.PathRolPermiso, "IdRolPermiso",
		map[string]any{"IdRolPermiso": 1, "IdRol": 2, "IdPermiso": 1},
	)
	return NewResolver(NewClient(srv.Client()), opts), srv
}

func TestHasFeature(t *testing.T) {
	r, _ := newResolver(t, Options{Cache: memory.NewCache()})
	ctx := context.Background()

	ok, err := r.HasFeature(ctx, capabilities.CapabilityCheck{RoleID: 2, Capability: "Clientes"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasFeature(ctx, capabilities.CapabilityCheck{RoleID: 2, Capability: "citas"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.HasFeature(ctx, capabilities.CapabilityCheck{Admin: true, Capability: "Citas"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasFeature(ctx, capabilities.CapabilityCheck{Capability: "Citas"})
	require.NoError(t, err)
	assert.False(t, ok, "no role, no permissions")

	_, err = r.HasFeature(ctx, capabilities.CapabilityCheck{RoleID: 2})
	assert.Error(t, err)
}

func TestResolve_CachesPerRole(t *testing.T) {
	r, srv := newResolver(t, Options{Cache: memory.NewCache()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, srv.Count(http.MethodGet, upstream.PathRolPermiso))

	r.Invalidate(ctx, 2)
	_, err := r.Resolve(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Count(http.MethodGet, upstream.PathRolPermiso))
}

func TestHasFeature_UpstreamDown(t *testing.T) {
	r, srv := newResolver(t, Options{})
	srv.Fail(http.MethodGet, upstream.PathRolPermiso, http.StatusServiceUnavailable, `{}`)

	_, err := r.HasFeature(context.Background(), capabilities.CapabilityCheck{RoleID: 2, Capability: "Clientes"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestHasFeature_AllowAll(t *testing.T) {
	r, srv := newResolver(t, Options{AllowAll: true})

	ok, err := r.HasFeature(context.Background(), capabilities.CapabilityCheck{Capability: "Roles"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, srv.Count("", "/"))
}
