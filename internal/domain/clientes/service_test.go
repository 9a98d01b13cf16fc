package clientes

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const session = "admin"

type env struct {
	svc      *Service
	srv      *upstreamtest.Server
	notifier *console.Notifier
	cache    *memory.Cache
	now      time.Time
}

func (e *env) toasts() []console.Notification {
	e.now = e.now.Add(2 * time.Second)
	return e.notifier.Drain(session)
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{srv: upstreamtest.New(t), cache: memory.NewCache(), now: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	e.srv.Table(upstream.PathClientes, "IdCliente",
		map[string]any{"IdCliente": 1, "Documento": "222222222222", "Nombre": "Consumidor", "Apellido": "Final", "Correo": "consumidor@final.com", "Estado": "Activo"},
		map[string]any{"IdCliente": 2, "Documento": "10203040", "Nombre": "Luis", "Apellido": "Pérez", "Correo": "luis@correo.com", "Telefono": "3001234567", "Direccion": "Carrera 10 # 5", "Estado": "Activo"},
		map[string]any{"IdCliente": 3, "Documento": "50607080", "Nombre": "Marta", "Apellido": "Gómez", "Correo": "marta@correo.com", "Telefono": "3109876543", "Direccion": "Calle 80 # 12"},
	)
	e.srv.Table(upstream.PathMascotas, "IdMascota",
		map[string]any{"IdMascota": 1, "IdCliente": 2, "Nombre": "Firulais"},
	)

	clock := func() time.Time { return e.now }
	overlay := console.NewOverlay(time.Second).WithClock(clock)
	e.notifier = console.NewNotifier(overlay, time.Hour).WithClock(clock)
	e.svc = NewService(e.srv.Client(), crud.Deps{
		Cache:    e.cache,
		CacheTTL: time.Hour,
		Notifier: e.notifier,
		Overlay:  overlay,
	})
	return e
}

func ana() Cliente {
	return Cliente{
		Documento: "1234567",
		Correo:    "a@b.com",
		Nombre:    "Ana",
		Apellido:  "Li",
		Telefono:  "3000000",
		Direccion: "Calle 1",
	}
}

func TestCreate_AddsClientAndQueuesSuccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	before, err := e.svc.Fetch(ctx, session)
	require.NoError(t, err)

	res, err := e.svc.Save(ctx, session, 0, ana())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Item.Activo)

	after, err := e.svc.Fetch(ctx, session)
	require.NoError(t, err)
	assert.Len(t, after.Items, len(before.Items)+1)

	toasts := e.toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, console.NotifySuccess, toasts[0].Kind)
	assert.Equal(t, "Cliente creado exitosamente", toasts[0].Message)

	row, ok := e.srv.Row(upstream.PathClientes, res.Item.ID)
	require.True(t, ok)
	assert.Equal(t, "Activo", row["Estado"], "clientes use the label form")
}

func TestCreate_DocumentBoundaries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, doc := range []string{"123456", "1234567890123", "12a4567"} {
		c := ana()
		c.Documento = doc
		_, err := e.svc.Save(ctx, session, 0, c)
		var ce *console.Error
		require.ErrorAs(t, err, &ce, doc)
		assert.Equal(t, "El documento debe tener entre 7 y 12 dígitos", ce.Fields["documento"], doc)
	}
	assert.Equal(t, 0, e.srv.Writes(upstream.PathClientes))

	for i, doc := range []string{"7654321", "123456789012"} {
		c := ana()
		c.Documento = doc
		c.Correo = []string{"x@y.com", "z@y.com"}[i]
		_, err := e.svc.Save(ctx, session, 0, c)
		require.NoError(t, err, doc)
	}
}

func TestCreate_DuplicateDocumentAndEmail(t *testing.T) {
	e := newEnv(t)

	c := ana()
	c.Documento = "10203040"
	c.Correo = "LUIS@correo.com"
	_, err := e.svc.Save(context.Background(), session, 0, c)

	var ce *console.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, MsgDocumentoDuplicado, ce.Fields["documento"])
	assert.Equal(t, MsgCorreoDuplicado, ce.Fields["correo"])
	assert.Equal(t, 0, e.srv.Writes(upstream.PathClientes))
}

func TestConsumidorFinal_IsProtected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Edit(ctx, 1)
	assert.Equal(t, console.KindProtected, console.KindOf(err))
	_, err = e.svc.ToggleStatus(ctx, session, 1)
	assert.Equal(t, console.KindProtected, console.KindOf(err))
	err = e.svc.Delete(ctx, session, 1, true)
	assert.Equal(t, console.KindProtected, console.KindOf(err))

	assert.Equal(t, 0, e.srv.Writes(upstream.PathClientes))

	assert.True(t, EsConsumidorFinal(Cliente{ID: 40, Documento: "0000000"}))
	assert.True(t, EsConsumidorFinal(Cliente{ID: 0, Nombre: "Consumidor", Apellido: "Final"}))
	assert.False(t, EsConsumidorFinal(Cliente{ID: 9, Nombre: "Consumidor", Apellido: "Final", Documento: "1234567"}))
}

func TestDelete_BlockedWhenClientHasPets(t *testing.T) {
	e := newEnv(t)

	err := e.svc.Delete(context.Background(), session, 2, true)
	require.Error(t, err)
	assert.Equal(t, MsgConMascotas, console.FriendlyMessage(err, ""))
	assert.Equal(t, 0, e.srv.Count(http.MethodDelete, upstream.PathClientes))
}

func TestToggleStatus_TwiceRestoresAndCaches(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.svc.ToggleStatus(ctx, session, 2)
	require.NoError(t, err)
	assert.False(t, c.Activo)
	c, err = e.svc.ToggleStatus(ctx, session, 2)
	require.NoError(t, err)
	assert.True(t, c.Activo)

	patches := e.srv.Calls(http.MethodPatch, upstream.PathClientes)
	require.Len(t, patches, 2)
	assert.Equal(t, "Inactivo", patches[0].Body["Estado"])
	assert.Equal(t, "Activo", patches[1].Body["Estado"])

	estados := console.NewStatusCache(e.cache, console.KeyClientesEstados, time.Hour).Load(ctx)
	assert.True(t, estados[2])
}

func TestFetch_StatusFromCacheWhenAPIOmitsIt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, console.NewStatusCache(e.cache, console.KeyClientesEstados, time.Hour).Record(ctx, 3, false))

	out, err := e.svc.Fetch(ctx, session)
	require.NoError(t, err)
	for _, c := range out.Items {
		if c.ID == 3 {
			assert.False(t, c.Activo)
			assert.True(t, c.Conocido)
		}
	}
}

func TestCreate_ServerErrorButSavedIsReconciled(t *testing.T) {
	e := newEnv(t)
	e.srv.FailAfterApply(http.MethodPost, upstream.PathClientes, http.StatusInternalServerError, `{"message":"Error interno"}`)

	res, err := e.svc.Save(context.Background(), session, 0, ana())
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, "1234567", res.Item.Documento)
	assert.NotZero(t, res.Item.ID)

	toasts := e.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifyWarning, toasts[0].Kind)
}

func TestCreate_ServerErrorNotSavedFails(t *testing.T) {
	e := newEnv(t)
	e.srv.Fail(http.MethodPost, upstream.PathClientes, http.StatusInternalServerError, `{"message":"Error interno"}`)

	_, err := e.svc.Save(context.Background(), session, 0, ana())
	require.Error(t, err)
	assert.Equal(t, console.KindUpstream, console.KindOf(err))

	_, found, err := e.svc.BuscarPorDocumento(context.Background(), "1234567")
	require.NoError(t, err)
	assert.False(t, found)
}
