package crud

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/console"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/ports/cache"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/upstream/upstreamtest"
	"pet-store-console/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	itemsPath = "/test/items"
	session   = "u1"
)

type item struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre" validate:"required,min=3,max=20"`
	Estado
}

type itemDTO struct {
	IdItem int             `json:"IdItem"`
	Nombre string          `json:"Nombre"`
	Estado upstream.Estado `json:"Estado"`
}

type fixture struct {
	srv      *upstreamtest.Server
	page     *Page[item, itemDTO]
	notifier *console.Notifier
	overlay  *console.Overlay
	cache    *memory.Cache
	now      time.Time
}

// settle deja pasar el tiempo mínimo del overlay.
func (f *fixture) settle() { f.now = f.now.Add(2 * time.Second) }

func (f *fixture) toasts() []console.Notification {
	f.settle()
	return f.notifier.Drain(session)
}

func newFixture(t *testing.T, mutate func(*Config[item, itemDTO]), rows ...map[string]any) *fixture {
	t.Helper()
	f := &fixture{srv: upstreamtest.New(t), now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	f.srv.Table(itemsPath, "IdItem", rows...)

	clock := func() time.Time { return f.now }
	f.overlay = console.NewOverlay(time.Second).WithClock(clock)
	f.notifier = console.NewNotifier(f.overlay, time.Hour).WithClock(clock)
	f.cache = memory.NewCache()

	hc, err := httpclient.NewWithBaseURL(f.srv.URL, 5*time.Second)
	require.NoError(t, err)
	res := upstream.NewResource[itemDTO](hc, itemsPath, upstream.FormaNumero)

	cfg := Config[item, itemDTO]{
		Entidad:  "Item",
		Articulo: "el item",
		ToView: func(d itemDTO) item {
			return item{ID: d.IdItem, Nombre: d.Nombre, Estado: EstadoDe(d.Estado)}
		},
		ToDTO: func(v item, forma upstream.Forma) itemDTO {
			return itemDTO{IdItem: v.ID, Nombre: v.Nombre, Estado: v.Wire(forma)}
		},
		ID:        func(v item) int { return v.ID },
		SetID:     func(v *item, id int) { v.ID = id },
		Label:     func(v item) string { return v.Nombre },
		Status:    func(v item) (bool, bool) { return v.Status() },
		SetStatus: func(v *item, a bool) { v.SetActive(a) },
		StatusKey: "itemsEstados",
		Normalize: func(v item) item {
			v.Nombre = strings.TrimSpace(v.Nombre)
			return v
		},
		Rules: func(_ context.Context, v item, others []item, _ console.Mode) *validation.Errors {
			errs := &validation.Errors{}
			for _, o := range others {
				if strings.EqualFold(o.Nombre, v.Nombre) {
					errs.Add("nombre", "Ya existe un item con este nombre")
				}
			}
			return errs
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	f.page = New(cfg, res, Deps{
		Cache:    f.cache,
		CacheTTL: time.Hour,
		Notifier: f.notifier,
		Overlay:  f.overlay,
	})
	return f
}

func TestFetch_AppliesCachedStatusWhenMissing(t *testing.T) {
	f := newFixture(t, nil,
		map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1},
		map[string]any{"IdItem": 2, "Nombre": "Dos"},
	)
	ctx := context.Background()
	require.NoError(t, console.NewStatusCache(f.cache, "itemsEstados", time.Hour).Record(ctx, 2, true))

	out, err := f.page.Fetch(ctx, session)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.False(t, out.Stale)
	assert.True(t, out.Items[0].Activo)
	assert.True(t, out.Items[1].Activo, "status for record without Estado comes from cache")

	cached := console.NewStatusCache(f.cache, "itemsEstados", time.Hour).Load(ctx)
	assert.Equal(t, map[int]bool{1: true, 2: true}, cached)
}

func TestFetch_UpstreamWinsOverCache(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 0})
	ctx := context.Background()
	require.NoError(t, console.NewStatusCache(f.cache, "itemsEstados", time.Hour).Record(ctx, 1, true))

	out, err := f.page.Fetch(ctx, session)
	require.NoError(t, err)
	assert.False(t, out.Items[0].Activo)
}

func TestFetch_FallsBackToSnapshot(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	ctx := context.Background()

	_, err := f.page.Fetch(ctx, session)
	require.NoError(t, err)

	f.srv.Fail(http.MethodGet, itemsPath, http.StatusInternalServerError, `{"message":"caído"}`)
	out, err := f.page.Fetch(ctx, session)
	require.NoError(t, err)
	assert.True(t, out.Stale)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Uno", out.Items[0].Nombre)

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifyError, toasts[0].Kind)
}

func TestFetch_NoSnapshotReturnsError(t *testing.T) {
	f := newFixture(t, nil)
	f.srv.Fail(http.MethodGet, itemsPath, http.StatusInternalServerError, `{"message":"caído"}`)

	_, err := f.page.Fetch(context.Background(), session)
	require.Error(t, err)
	assert.Equal(t, console.KindUpstream, console.KindOf(err))
	assert.Len(t, f.toasts(), 1)
}

func TestFetch_ErrorToastWaitsForOverlay(t *testing.T) {
	f := newFixture(t, nil)
	f.srv.Fail(http.MethodGet, itemsPath, http.StatusInternalServerError, `{"message":"caído"}`)

	_, err := f.page.Fetch(context.Background(), session)
	require.Error(t, err)
	assert.True(t, f.overlay.Visible(session), "fetch shows the overlay")
	assert.Empty(t, f.notifier.Drain(session))

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifyError, toasts[0].Kind)
}

func TestSave_GuardRejectsEditWithoutWrite(t *testing.T) {
	f := newFixture(t, func(c *Config[item, itemDTO]) {
		c.Guard = func(cur, next item) (item, error) {
			if cur.Nombre == "Cerrado" {
				return next, console.NewError(console.KindBadState, "cerrado")
			}
			return next, nil
		}
	},
		map[string]any{"IdItem": 1, "Nombre": "Cerrado", "Estado": 1},
		map[string]any{"IdItem": 2, "Nombre": "Abierto", "Estado": 1},
	)
	ctx := context.Background()

	_, err := f.page.Save(ctx, session, 1, item{Nombre: "Otro"})
	assert.Equal(t, console.KindBadState, console.KindOf(err))
	_, err = f.page.Edit(ctx, 1)
	assert.Equal(t, console.KindBadState, console.KindOf(err))
	assert.Equal(t, 0, f.srv.Writes(itemsPath))

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "cerrado", toasts[0].Message)

	_, err = f.page.Save(ctx, session, 2, item{Nombre: "Abierto 2"})
	require.NoError(t, err)
}

func TestSave_ValidationFailureMakesNoWrite(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})

	_, err := f.page.Save(context.Background(), session, 0, item{Nombre: "ab"})
	require.Error(t, err)
	assert.Equal(t, console.KindValidation, console.KindOf(err))

	_, err = f.page.Save(context.Background(), session, 0, item{Nombre: " UNO "})
	require.Error(t, err)
	var ce *console.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Ya existe un item con este nombre", ce.Fields["nombre"])

	assert.Equal(t, 0, f.srv.Writes(itemsPath))
}

func TestSave_UpdateMayKeepOwnName(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 0})

	res, err := f.page.Save(context.Background(), session, 1, item{Nombre: "uno"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "uno", res.Item.Nombre)
	assert.False(t, res.Item.Activo, "status is kept on update")

	row, _ := f.srv.Row(itemsPath, 1)
	assert.Equal(t, "0", fmt.Sprint(row["Estado"]))
}

func TestSave_CreateAddsToListAndQueuesSuccess(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	ctx := context.Background()

	res, err := f.page.Save(ctx, session, 0, item{Nombre: "Dos"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.Reconciled)
	assert.Equal(t, 2, res.Item.ID)
	assert.True(t, res.Item.Activo)

	assert.Empty(t, f.notifier.Drain(session), "toast waits for the overlay")

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifySuccess, toasts[0].Kind)
	assert.Equal(t, "Item creado exitosamente", toasts[0].Message)

	items, ok := f.page.list.Load(ctx)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestSave_CreateServerErrorReconciles(t *testing.T) {
	var f *fixture
	f = newFixture(t, func(c *Config[item, itemDTO]) {
		c.Reconcile = func(ctx context.Context, v item) (item, bool, error) {
			items, err := f.page.Items(ctx)
			if err != nil {
				return item{}, false, err
			}
			for _, it := range items {
				if strings.EqualFold(it.Nombre, v.Nombre) {
					return it, true, nil
				}
			}
			return item{}, false, nil
		}
	})
	f.srv.FailAfterApply(http.MethodPost, itemsPath, http.StatusInternalServerError, `{"message":"error interno"}`)

	res, err := f.page.Save(context.Background(), session, 0, item{Nombre: "Nuevo"})
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, 1, res.Item.ID)

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifyWarning, toasts[0].Kind)
}

func TestSave_CreateServerErrorWithoutRecordFails(t *testing.T) {
	f := newFixture(t, func(c *Config[item, itemDTO]) {
		c.Reconcile = func(context.Context, item) (item, bool, error) { return item{}, false, nil }
	})
	f.srv.Fail(http.MethodPost, itemsPath, http.StatusInternalServerError, `{"message":"error interno"}`)

	_, err := f.page.Save(context.Background(), session, 0, item{Nombre: "Nuevo"})
	require.Error(t, err)
	assert.Equal(t, console.KindUpstream, console.KindOf(err))
	assert.Equal(t, "error interno", console.FriendlyMessage(err, ""))
}

func TestToggleStatus_TwiceRestoresOriginal(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	ctx := context.Background()

	v, err := f.page.ToggleStatus(ctx, session, 1)
	require.NoError(t, err)
	assert.False(t, v.Activo)

	v, err = f.page.ToggleStatus(ctx, session, 1)
	require.NoError(t, err)
	assert.True(t, v.Activo)

	calls := f.srv.Calls(http.MethodPatch, itemsPath)
	require.Len(t, calls, 2)
	assert.Equal(t, "0", fmt.Sprint(calls[0].Body["Estado"]))
	assert.Equal(t, "1", fmt.Sprint(calls[1].Body["Estado"]))

	assert.True(t, console.NewStatusCache(f.cache, "itemsEstados", time.Hour).Load(ctx)[1])
}

func TestToggleStatus_CanToggleBlocks(t *testing.T) {
	f := newFixture(t, func(c *Config[item, itemDTO]) {
		c.CanToggle = func(_ item, nuevo bool) error {
			if nuevo {
				return console.NewError(console.KindBadState, "No se puede reactivar")
			}
			return nil
		}
	}, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 0})

	_, err := f.page.ToggleStatus(context.Background(), session, 1)
	require.Error(t, err)
	assert.Equal(t, console.KindBadState, console.KindOf(err))
	assert.Equal(t, 0, f.srv.Writes(itemsPath))
}

func TestDelete_DependencyBlocksWithoutAPICall(t *testing.T) {
	f := newFixture(t, func(c *Config[item, itemDTO]) {
		c.Dependents = func(context.Context, item) (string, error) {
			return "No se puede eliminar el item porque tiene hijos", nil
		}
	}, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})

	err := f.page.Delete(context.Background(), session, 1, true)
	require.Error(t, err)
	assert.Equal(t, console.KindConflict, console.KindOf(err))
	assert.Equal(t, 0, f.srv.Count(http.MethodDelete, itemsPath))

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "No se puede eliminar el item porque tiene hijos", toasts[0].Message)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	ctx := context.Background()

	err := f.page.Delete(ctx, session, 1, false)
	require.Error(t, err)
	var ce *console.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, console.KindConfirm, ce.Kind)
	require.NotNil(t, ce.Confirmation)
	assert.Contains(t, ce.Confirmation.Message, "Uno")
	assert.Equal(t, 0, f.srv.Count(http.MethodDelete, itemsPath))

	require.NoError(t, f.page.Delete(ctx, session, 1, true))
	assert.Empty(t, f.srv.Rows(itemsPath))
}

func TestDelete_TranslatesUpstreamDependencyError(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	f.srv.Fail(http.MethodDelete, itemsPath+"/1", http.StatusBadRequest,
		`{"message":"Cannot delete: foreign key constraint fails (mascota)"}`)

	err := f.page.Delete(context.Background(), session, 1, true)
	require.Error(t, err)
	assert.Equal(t, "No se puede eliminar el item porque tiene mascotas asociadas", console.FriendlyMessage(err, ""))
}

// failingStore rechaza las escrituras sobre una clave.
type failingStore struct {
	cache.Store
	key string
}

func (s failingStore) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if key == s.key {
		return fmt.Errorf("cache caída")
	}
	return s.Store.Set(ctx, key, v, ttl)
}

func TestDelete_StatusCacheFailureIsLogged(t *testing.T) {
	f := newFixture(t, nil, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	var buf bytes.Buffer
	f.page = New(f.page.cfg, f.page.res, Deps{
		Cache:    failingStore{Store: f.cache, key: "itemsEstados"},
		CacheTTL: time.Hour,
		Notifier: f.notifier,
		Overlay:  f.overlay,
		Log:      logger.New(logger.Options{Level: logger.Warn, Format: logger.FormatJSON, Out: &buf}),
	})

	require.NoError(t, f.page.Delete(context.Background(), session, 1, true))
	assert.Empty(t, f.srv.Rows(itemsPath))
	assert.Contains(t, buf.String(), "status cache write failed")
	assert.Contains(t, buf.String(), "cache caída")

	toasts := f.toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, console.NotifySuccess, toasts[0].Kind)
}

func TestProtectedRecordsRejectChanges(t *testing.T) {
	f := newFixture(t, func(c *Config[item, itemDTO]) {
		c.Protected = func(v item) bool { return v.ID == 1 }
		c.ProtectedMsg = "No se puede modificar este registro"
	}, map[string]any{"IdItem": 1, "Nombre": "Uno", "Estado": 1})
	ctx := context.Background()

	_, err := f.page.Edit(ctx, 1)
	assert.Equal(t, console.KindProtected, console.KindOf(err))
	_, err = f.page.Save(ctx, session, 1, item{Nombre: "Otro"})
	assert.Equal(t, console.KindProtected, console.KindOf(err))
	_, err = f.page.ToggleStatus(ctx, session, 1)
	assert.Equal(t, console.KindProtected, console.KindOf(err))
	err = f.page.Delete(ctx, session, 1, true)
	assert.Equal(t, console.KindProtected, console.KindOf(err))

	assert.Equal(t, 0, f.srv.Writes(itemsPath))

	st, err := f.page.View(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.ReadOnly)
	assert.Equal(t, "Ver Item", st.Title)
}

func TestFind_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.page.View(context.Background(), 9)
	assert.Equal(t, console.KindNotFound, console.KindOf(err))
}
