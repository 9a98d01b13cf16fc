package console

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/validation"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock { return &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)} }

func TestOverlay_MinimumDisplay(t *testing.T) {
	c := newClock()
	o := NewOverlay(time.Second).WithClock(c.Now)

	assert.False(t, o.Visible("s"))

	hide := o.Show("s")
	c.Advance(100 * time.Millisecond)
	hide()
	assert.True(t, o.Visible("s"), "fast operations keep the overlay for the minimum time")
	assert.Equal(t, 900*time.Millisecond, o.Remaining("s"))

	c.Advance(900 * time.Millisecond)
	assert.False(t, o.Visible("s"))
}

func TestOverlay_StaysWhileOperationsRun(t *testing.T) {
	c := newClock()
	o := NewOverlay(time.Second).WithClock(c.Now)

	h1 := o.Show("s")
	h2 := o.Show("s")
	c.Advance(5 * time.Second)
	h1()
	h1()
	assert.True(t, o.Visible("s"))
	h2()
	assert.False(t, o.Visible("s"))
}

func TestOverlay_DefaultMinimum(t *testing.T) {
	o := NewOverlay(0)
	assert.Equal(t, DefaultMinDisplay, o.min)
}

func TestNotifier_DefersUntilOverlayHides(t *testing.T) {
	c := newClock()
	o := NewOverlay(time.Second).WithClock(c.Now)
	n := NewNotifier(o, time.Minute).WithClock(c.Now)

	hide := o.Show("s")
	n.Success("s", "Cliente creado exitosamente")
	n.Error("s", "otro")
	hide()

	assert.Nil(t, n.Drain("s"))
	assert.Equal(t, 2, n.Pending("s"))

	c.Advance(time.Second)
	got := n.Drain("s")
	require.Len(t, got, 2)
	assert.Equal(t, NotifySuccess, got[0].Kind)
	assert.Equal(t, NotifyError, got[1].Kind)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Empty(t, n.Drain("s"))
}

func TestNotifier_SessionsAreIsolatedAndExpire(t *testing.T) {
	c := newClock()
	n := NewNotifier(nil, time.Minute).WithClock(c.Now)

	n.Info("a", "viejo")
	c.Advance(2 * time.Minute)
	n.Warning("a", "nuevo")
	n.Info("b", "de b")

	got := n.Drain("a")
	require.Len(t, got, 1)
	assert.Equal(t, "nuevo", got[0].Message)
	assert.Len(t, n.Drain("b"), 1)
}

func TestNotifier_PushPrunesIdleSessions(t *testing.T) {
	c := newClock()
	n := NewNotifier(nil, time.Minute).WithClock(c.Now)

	n.Info("idle", "nadie lo lee")
	n.Info("b", "viejo")
	c.Advance(2 * time.Minute)
	n.Info("b", "nuevo")

	assert.Equal(t, 0, n.Pending("idle"))
	assert.NotContains(t, n.queues, "idle")
	assert.Equal(t, 1, n.Pending("b"))
}

func TestOverlay_ShowPrunesHiddenSessions(t *testing.T) {
	c := newClock()
	o := NewOverlay(time.Second).WithClock(c.Now)

	o.Show("idle")()
	running := o.Show("busy")
	c.Advance(2 * time.Second)

	hide := o.Show("b")
	assert.NotContains(t, o.states, "idle")
	assert.Contains(t, o.states, "busy", "sessions with running operations stay")
	hide()
	running()
}

func TestStatusCache_RecordMergeForget(t *testing.T) {
	ctx := context.Background()
	sc := NewStatusCache(memory.NewCache(), KeyClientesEstados, time.Hour)

	assert.Empty(t, sc.Load(ctx))
	require.NoError(t, sc.Record(ctx, 3, false))
	require.NoError(t, sc.Merge(ctx, map[int]bool{4: true, 3: true}))
	assert.Equal(t, map[int]bool{3: true, 4: true}, sc.Load(ctx))

	require.NoError(t, sc.Forget(ctx, 3))
	assert.Equal(t, map[int]bool{4: true}, sc.Load(ctx))
	assert.Equal(t, "clientesEstados", sc.Key())
}

func TestFromUpstream_Keywords(t *testing.T) {
	mk := func(status int, body string) error {
		return errors.Wrap(&httpclient.HTTPError{StatusCode: status, Body: body}, "delete")
	}

	cases := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"mascota", mk(400, `{"message":"El cliente tiene mascota registrada"}`), KindValidation, "El cliente tiene mascota registrada"},
		{"fk al guardar", mk(409, `{"message":"foreign key constraint fails: mascotas"}`), KindConflict, "foreign key constraint fails: mascotas"},
		{"duplicate", mk(500, `{"message":"Duplicate entry '123' for key 'Documento'"}`), KindConflict, "Ya existe un registro con los mismos datos"},
		{"not found", mk(404, ``), KindNotFound, "El cliente no existe"},
		{"server", mk(503, ``), KindUpstream, "Error en el servidor"},
		{"network", errors.New("dial tcp: refused"), KindUpstream, "No se pudo conectar con el servidor"},
		{"timeout", errors.Wrap(context.DeadlineExceeded, "get"), KindUpstream, "El servidor tardó demasiado en responder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce := FromUpstream(tc.err, "el cliente")
			require.NotNil(t, ce)
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, tc.msg, ce.Message)
			assert.ErrorIs(t, ce, tc.err)
		})
	}
}

func TestFromDelete_DependencyKeywords(t *testing.T) {
	mk := func(status int, body string) error {
		return errors.Wrap(&httpclient.HTTPError{StatusCode: status, Body: body}, "delete")
	}

	cases := []struct {
		name    string
		err     error
		entidad string
		kind    Kind
		msg     string
	}{
		{"fk mascota", mk(500, `{"error":"foreign key constraint fails: mascotas"}`), "el cliente", KindConflict, "No se puede eliminar el cliente porque tiene mascotas asociadas"},
		{"venta 409", mk(409, `{"message":"tiene venta"}`), "el cliente", KindConflict, "No se puede eliminar el cliente porque tiene ventas asociadas"},
		{"ignora la propia entidad", mk(500, `{"error":"Cannot delete or update a parent row: citas.IdMascota references mascotas"}`), "la mascota", KindConflict, "No se puede eliminar la mascota porque tiene citas asociadas"},
		{"solo la propia entidad", mk(409, `{"message":"mascota en uso"}`), "la mascota", KindConflict, "mascota en uso"},
		{"tipo usado por servicios", mk(409, `{"message":"servicios usan este tipo"}`), "el tipo de servicio", KindConflict, "No se puede eliminar el tipo de servicio porque tiene servicios asociados"},
		{"validacion", mk(400, `{"message":"El cliente tiene mascota registrada"}`), "el cliente", KindValidation, "El cliente tiene mascota registrada"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce := FromDelete(tc.err, tc.entidad)
			require.NotNil(t, ce)
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, tc.msg, ce.Message)
		})
	}

	save := FromUpstream(mk(500, `{"error":"foreign key constraint fails: mascotas"}`), "el cliente")
	assert.NotContains(t, save.Message, "eliminar")
}

func TestFromUpstream_KeepsConsoleErrors(t *testing.T) {
	orig := NewError(KindProtected, "protegido")
	assert.Same(t, orig, FromUpstream(errors.Wrap(orig, "x"), "el cliente"))
	assert.Nil(t, FromUpstream(nil, "el cliente"))
}

func TestFriendlyMessage(t *testing.T) {
	assert.Equal(t, "", FriendlyMessage(nil, "x"))
	assert.Equal(t, "protegido", FriendlyMessage(NewError(KindProtected, "protegido"), "x"))
	assert.Equal(t, "sin stock", FriendlyMessage(&httpclient.HTTPError{StatusCode: http.StatusBadRequest, Body: `{"mensaje":"sin stock"}`}, "x"))
	assert.Equal(t, "x", FriendlyMessage(errors.New("boom"), "x"))
}

func TestFromValidation(t *testing.T) {
	assert.Nil(t, FromValidation(nil))

	errs := &validation.Errors{}
	errs.Add("correo", "Ingrese un correo electrónico válido")
	ce := FromValidation(errs)
	require.NotNil(t, ce)
	assert.Equal(t, KindValidation, ce.Kind)
	assert.Equal(t, "Ingrese un correo electrónico válido", ce.Fields["correo"])
}

func TestTitleAndConfirm(t *testing.T) {
	assert.Equal(t, "Ver Cliente", Title(ModeView, "Cliente"))
	assert.Equal(t, "Editar Cliente", Title(ModeEdit, "Cliente"))
	assert.Equal(t, "Nuevo Cliente", Title(ModeCreate, "Cliente"))

	ce := ConfirmRequired(Confirmation{Message: "¿Seguro?"})
	assert.Equal(t, KindConfirm, ce.Kind)
	assert.Equal(t, "Cancelar", ce.Confirmation.CancelText)
}
