package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-store-console/internal/adapters/auth/jwtauth"
	"pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/domain/clientes"
	"pet-store-console/internal/platform/respond"
	"pet-store-console/internal/router"
	"pet-store-console/internal/session"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@tienda.com"

type harness struct {
	url string
	api *upstreamtest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := upstreamtest.New(t)
	api.Table(upstream.PathClientes, "IdCliente",
		map[string]any{"IdCliente": 1, "Documento": "222222222222", "Nombre": "Consumidor", "Apellido": "Final", "Correo": "consumidor@final.com", "Estado": "Activo"},
		map[string]any{"IdCliente": 2, "Documento": "10203040", "Nombre": "Luis", "Apellido": "Pérez", "Correo": "luis@correo.com", "Telefono": "3001234567", "Direccion": "Carrera 10 # 5", "Estado": "Activo"},
		map[string]any{"IdCliente": 3, "Documento": "50607080", "Nombre": "Marta", "Apellido": "Gómez", "Correo": "marta@correo.com", "Telefono": "3109876543", "Direccion": "Calle 80 # 12", "Estado": "Activo"},
	)
	api.Table(upstream.PathMascotas, "IdMascota",
		map[string]any{"IdMascota": 1, "IdCliente": 2, "Nombre": "Firulais", "Estado": "Activo"},
	)
	api.Table(upstream.PathPermisos, "IdPermiso",
		map[string]any{"IdPermiso": 1, "NombrePermiso": "Clientes"},
		map[string]any{"IdPermiso": 2, "NombrePermiso": "Citas"},
	)
	api.Table(upstream.PathRolPermiso, "IdRolPermiso",
		map[string]any{"IdRolPermiso": 1, "IdRol": 2, "IdPermiso": 1},
	)
	api.Table(upstream.PathCitas, "IdCita")

	hash, err := jwtauth.HashPassword("secreto123")
	require.NoError(t, err)
	tokens := jwtauth.New(jwtauth.Config{Secret: "test-secret", TTL: time.Hour})

	h := router.NewRouter(router.Options{
		API:             api.Client(),
		Cache:           memory.NewCache(),
		MinOverlay:      time.Nanosecond,
		NotificationTTL: time.Minute,
		Verifier:        tokens,
		Issuer:          tokens,
		TokenTTL:        time.Hour,
		Admin:           jwtauth.Admin{Email: adminEmail, PasswordHash: hash},
		DevMode:         true,
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &harness{url: ts.URL, api: api}
}

func TestHTTP_Health(t *testing.T) {
	h := newHarness(t)
	st, body := doReq(t, h.url, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))
}

func TestHTTP_RequiresSession(t *testing.T) {
	h := newHarness(t)
	st, _ := doReq(t, h.url, http.MethodGet, "/api/clientes", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func TestHTTP_ClientesEndToEnd(t *testing.T) {
	h := newHarness(t)
	hdr := debugUser("u-1", "")

	// 1) Lista
	{
		st, body := doReq(t, h.url, http.MethodGet, "/api/clientes", hdr, nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var out struct {
			Items []clientes.Cliente `json:"items"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Len(t, out.Items, 3)
	}

	// 2) Alta y toast de éxito
	{
		st, body := doReq(t, h.url, http.MethodPost, "/api/clientes", hdr, map[string]any{
			"documento": "1234567",
			"nombre":    "Ana",
			"apellido":  "Li",
			"correo":    "ana@correo.com",
			"telefono":  "3000000",
			"direccion": "Calle 1 # 2",
		})
		require.Equal(t, http.StatusCreated, st, string(body))
		assert.Equal(t, 1, h.api.Count(http.MethodPost, upstream.PathClientes))

		st, body = doReq(t, h.url, http.MethodGet, "/api/me/notifications", hdr, nil)
		require.Equal(t, http.StatusOK, st)
		var toasts []map[string]any
		require.NoError(t, json.Unmarshal(body, &toasts))
		require.Len(t, toasts, 1)
		assert.Equal(t, "success", toasts[0]["kind"])
	}

	// 3) Alta inválida no llega al API
	{
		st, body := doReq(t, h.url, http.MethodPost, "/api/clientes", hdr, map[string]any{"nombre": "A"})
		require.Equal(t, http.StatusUnprocessableEntity, st)
		eb := decodeError(t, body)
		assert.NotEmpty(t, eb.Fields["documento"])
		assert.Equal(t, 1, h.api.Count(http.MethodPost, upstream.PathClientes))
	}

	// 4) Eliminar pide confirmación antes de tocar el API
	{
		st, body := doReq(t, h.url, http.MethodDelete, "/api/clientes/3", hdr, nil)
		require.Equal(t, http.StatusPreconditionRequired, st)
		eb := decodeError(t, body)
		require.NotNil(t, eb.Confirmation)
		assert.Equal(t, 0, h.api.Count(http.MethodDelete, upstream.PathClientes))

		st, _ = doReq(t, h.url, http.MethodDelete, "/api/clientes/3?confirm=true", hdr, nil)
		assert.Equal(t, http.StatusNoContent, st)
		_, ok := h.api.Row(upstream.PathClientes, 3)
		assert.False(t, ok)
	}

	// 5) Con mascotas no se elimina
	{
		st, body := doReq(t, h.url, http.MethodDelete, "/api/clientes/2?confirm=true", hdr, nil)
		require.Equal(t, http.StatusConflict, st)
		assert.Equal(t, clientes.MsgConMascotas, decodeError(t, body).Detail)
	}

	// 6) Consumidor Final está protegido
	{
		st, body := doReq(t, h.url, http.MethodDelete, "/api/clientes/1?confirm=true", hdr, nil)
		require.Equal(t, http.StatusForbidden, st)
		assert.Equal(t, clientes.MsgProtegido, decodeError(t, body).Detail)
	}
}

func TestHTTP_PermissionsByRole(t *testing.T) {
	h := newHarness(t)
	hdr := debugUser("u-2", "2")

	st, body := doReq(t, h.url, http.MethodGet, "/api/clientes", hdr, nil)
	assert.Equal(t, http.StatusOK, st, string(body))

	st, body = doReq(t, h.url, http.MethodGet, "/api/citas", hdr, nil)
	assert.Equal(t, http.StatusForbidden, st)
	assert.Equal(t, "No tiene permiso para acceder a Citas", decodeError(t, body).Detail)

	// sin rol el header de debug entra como admin
	st, _ = doReq(t, h.url, http.MethodGet, "/api/citas", debugUser("u-3", ""), nil)
	assert.Equal(t, http.StatusOK, st)
}

func TestHTTP_LoginIssuesUsableToken(t *testing.T) {
	h := newHarness(t)

	st, _ := doReq(t, h.url, http.MethodPost, "/api/session", nil, map[string]any{"email": adminEmail, "password": "otra"})
	require.Equal(t, http.StatusUnauthorized, st)

	st, body := doReq(t, h.url, http.MethodPost, "/api/session", nil, map[string]any{"email": adminEmail, "password": "secreto123"})
	require.Equal(t, http.StatusOK, st, string(body))
	var tok session.Token
	require.NoError(t, json.Unmarshal(body, &tok))
	require.NotEmpty(t, tok.AccessToken)

	st, body = doReq(t, h.url, http.MethodGet, "/api/me", map[string]string{"Authorization": "Bearer " + tok.AccessToken}, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	var me session.User
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, adminEmail, me.Email)
	assert.True(t, me.Admin)

	st, _ = doReq(t, h.url, http.MethodGet, "/api/me", map[string]string{"Authorization": "Bearer basura"}, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func debugUser(id, rol string) map[string]string {
	h := map[string]string{"X-Debug-User-ID": id}
	if rol != "" {
		h["X-Debug-Role-ID"] = rol
	}
	return h
}

func decodeError(t *testing.T, body []byte) respond.ErrorBody {
	t.Helper()
	var eb respond.ErrorBody
	require.NoError(t, json.Unmarshal(body, &eb), string(body))
	return eb
}

func doReq(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
