package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pet-store-console/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstado_DecodesEveryWireForm(t *testing.T) {
	cases := []struct {
		raw      string
		activo   bool
		presente bool
		forma    Forma
	}{
		{`true`, true, true, FormaBool},
		{`false`, false, true, FormaBool},
		{`1`, true, true, FormaNumero},
		{`0`, false, true, FormaNumero},
		{`"Activo"`, true, true, FormaEtiqueta},
		{`"Inactivo"`, false, true, FormaEtiqueta},
		{`"activo"`, true, true, FormaEtiqueta},
		{`null`, false, false, FormaEtiqueta},
		{`"Programada"`, false, false, FormaEtiqueta},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var e Estado
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &e))
			assert.Equal(t, tc.activo, e.Activo)
			assert.Equal(t, tc.presente, e.Presente)
			if tc.presente {
				assert.Equal(t, tc.forma, e.Forma)
			}
		})
	}
}

func TestEstado_ReencodesInOriginalForm(t *testing.T) {
	for _, raw := range []string{`true`, `0`, `"Inactivo"`, `null`} {
		var e Estado
		require.NoError(t, json.Unmarshal([]byte(raw), &e))
		out, err := json.Marshal(e)
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	}
}

func TestFlex_NumberOrString(t *testing.T) {
	var m Mascota
	require.NoError(t, json.Unmarshal([]byte(`{"IdEspecie": 2}`), &m))
	assert.Equal(t, Flex("2"), m.IdEspecie)
	assert.Equal(t, 2, m.IdEspecie.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"IdEspecie": "Canino"}`), &m))
	assert.Equal(t, Flex("Canino"), m.IdEspecie)
	assert.Equal(t, 0, m.IdEspecie.Int())

	out, err := json.Marshal(Flex("1"))
	require.NoError(t, err)
	assert.Equal(t, `1`, string(out))
}

func TestStringListAndFlag(t *testing.T) {
	var p Producto
	require.NoError(t, json.Unmarshal([]byte(`{"Fotos":"a.jpg, b.jpg,","TieneIva":1,"Precio":"12.50"}`), &p))
	assert.Equal(t, StringList{"a.jpg", "b.jpg"}, p.Fotos)
	assert.True(t, bool(p.TieneIva))
	assert.Equal(t, "12.5", p.Precio.String())
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	hc, err := httpclient.NewWithBaseURL(ts.URL, time.Second)
	require.NoError(t, err)
	return New(hc)
}

func TestResource_List_AcceptsArrayAndEnvelope(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`[{"IdCategoria":1,"NombreCategoria":"Alimentos","Estado":1}]`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"IdCategoria":2,"NombreCategoria":"Juguetes","Estado":"Inactivo"}]}`))
	})

	items, err := c.Categorias.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Alimentos", items[0].NombreCategoria)
	assert.True(t, items[0].Estado.Activo)

	items, err = c.Categorias.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].IdCategoria)
	assert.False(t, items[0].Estado.Activo)
}

func TestResource_SetStatus_UsesResourceForm(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Clientes.SetStatus(context.Background(), 5, false))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/customers/clientes/5/status", gotPath)
	assert.Equal(t, "Inactivo", gotBody["Estado"])

	require.NoError(t, c.Categorias.SetStatus(context.Background(), 3, true))
	assert.Equal(t, float64(1), gotBody["Estado"])
}

func TestResource_SearchAndGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/customers/mascotas":
			assert.Equal(t, "9", r.URL.Query().Get("IdCliente"))
			_, _ = w.Write([]byte(`{"items":[{"IdMascota":1,"IdCliente":9}]}`))
		case "/customers/mascotas/1":
			_, _ = w.Write([]byte(`{"data":{"IdMascota":1,"Nombre":"Milo"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	items, err := c.Mascotas.Search(context.Background(), url.Values{"IdCliente": {"9"}})
	require.NoError(t, err)
	require.Len(t, items, 1)

	m, err := c.Mascotas.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Milo", m.Nombre)

	_, err = c.Mascotas.Get(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpclient.StatusOf(err))
}

func TestResource_Create_MessageOnlyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`"creado"`))
	})

	out, err := c.Clientes.Create(context.Background(), Cliente{Nombre: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.IdCliente)
}
