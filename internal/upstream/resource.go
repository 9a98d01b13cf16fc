package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-store-console/internal/platform/httpclient"

	"github.com/pkg/errors"
)

// Resource es el cliente de un recurso REST del API (una "colección" con id numérico).
// D es el DTO tal como viaja en el cable.
type Resource[D any] struct {
	c     *httpclient.Client
	path  string
	forma Forma
}

func NewResource[D any](c *httpclient.Client, path string, forma Forma) *Resource[D] {
	return &Resource[D]{
		c:     c,
		path:  "/" + strings.Trim(path, "/"),
		forma: forma,
	}
}

func (r *Resource[D]) Path() string { return r.path }

// Forma es la representación de Estado que acepta el recurso en PATCH .../status.
func (r *Resource[D]) Forma() Forma { return r.forma }

func (r *Resource[D]) List(ctx context.Context) ([]D, error) {
	return r.listAt(ctx, r.path)
}

// Search hace GET {path}?k=v (los filtros dependen del recurso).
func (r *Resource[D]) Search(ctx context.Context, params url.Values) ([]D, error) {
	p := r.path
	if q := params.Encode(); q != "" {
		p += "?" + q
	}
	return r.listAt(ctx, p)
}

func (r *Resource[D]) Get(ctx context.Context, id int) (D, error) {
	var zero D
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodGet, r.itemPath(id), nil, nil, &raw); err != nil {
		return zero, errors.Wrapf(err, "get %s/%d", r.path, id)
	}
	return decodeOne[D](raw)
}

func (r *Resource[D]) Create(ctx context.Context, body any) (D, error) {
	var zero D
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodPost, r.path, nil, body, &raw); err != nil {
		return zero, errors.Wrapf(err, "create %s", r.path)
	}
	return decodeOne[D](raw)
}

func (r *Resource[D]) Update(ctx context.Context, id int, body any) (D, error) {
	var zero D
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodPut, r.itemPath(id), nil, body, &raw); err != nil {
		return zero, errors.Wrapf(err, "update %s/%d", r.path, id)
	}
	return decodeOne[D](raw)
}

func (r *Resource[D]) Delete(ctx context.Context, id int) error {
	if err := r.c.DoJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "delete %s/%d", r.path, id)
	}
	return nil
}

// SetStatus hace PATCH {path}/{id}/status con {"Estado": ...} en la forma del recurso.
func (r *Resource[D]) SetStatus(ctx context.Context, id int, activo bool) error {
	body := map[string]any{"Estado": NewEstado(activo, r.forma).Wire()}
	if err := r.c.DoJSON(ctx, http.MethodPatch, r.itemPath(id)+"/status", nil, body, nil); err != nil {
		return errors.Wrapf(err, "set status %s/%d", r.path, id)
	}
	return nil
}

func (r *Resource[D]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

func (r *Resource[D]) listAt(ctx context.Context, p string) ([]D, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodGet, p, nil, nil, &raw); err != nil {
		return nil, errors.Wrapf(err, "list %s", p)
	}
	return decodeList[D](raw)
}

var envelopeKeys = []string{"data", "items", "rows", "results"}

// decodeList acepta un arreglo o un sobre {"data": [...]}.
func decodeList[D any](raw json.RawMessage) ([]D, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []D{}, nil
	}

	if raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, errors.Wrap(err, "decode envelope")
		}
		found := false
		for _, k := range envelopeKeys {
			if v, ok := env[k]; ok {
				raw, found = bytes.TrimSpace(v), true
				break
			}
		}
		if !found {
			return nil, errors.New("decode list: unexpected object")
		}
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return []D{}, nil
		}
	}

	var out []D
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode list")
	}
	if out == nil {
		out = []D{}
	}
	return out, nil
}

// decodeOne acepta el objeto o un sobre {"data": {...}}.
func decodeOne[D any](raw json.RawMessage) (D, error) {
	var out D
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	if raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err == nil {
			if v, ok := env["data"]; ok {
				v = bytes.TrimSpace(v)
				if len(v) > 0 && v[0] == '{' {
					raw = v
				}
			}
		}
	}

	if raw[0] != '{' {
		// Algunos endpoints responden solo un mensaje o el id.
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrap(err, "decode item")
	}
	return out, nil
}
