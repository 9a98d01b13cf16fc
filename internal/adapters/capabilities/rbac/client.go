package rbac

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"pet-store-console/internal/upstream"

	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("rbac client not configured")
	ErrUpstream      = errors.New("rbac upstream error")
)

// Client lee las asignaciones rol-permiso del API.
type Client struct {
	api *upstream.Client
}

func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.api != nil
}

// PermisosDeRol devuelve los nombres de permiso del rol, en minúsculas.
func (c *Client) PermisosDeRol(ctx context.Context, rolID int) (map[string]bool, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	asignados, err := c.api.RolPermisos.Search(ctx, url.Values{"IdRol": {strconv.Itoa(rolID)}})
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "rol-permiso: %v", err)
	}
	ids := map[int]bool{}
	for _, rp := range asignados {
		if rp.IdRol == rolID {
			ids[rp.IdPermiso] = true
		}
	}

	out := map[string]bool{}
	if len(ids) == 0 {
		return out, nil
	}
	catalogo, err := c.api.Permisos.List(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "permisos: %v", err)
	}
	for _, p := range catalogo {
		if ids[p.IdPermiso] {
			out[normalize(p.NombrePermiso)] = true
		}
	}
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
