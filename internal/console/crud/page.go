// Package crud implementa el flujo común de las pantallas de administración:
// listar, ver, editar, guardar, cambiar estado y eliminar un recurso del API.
// Cada dominio aporta su configuración (mapeo, reglas, dependencias) y el
// motor se encarga del caché, el overlay y los toasts.
package crud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-store-console/internal/console"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/ports/cache"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

// Resource es lo que el motor necesita del cliente REST.
// *upstream.Resource[D] lo implementa.
type Resource[D any] interface {
	Forma() upstream.Forma
	List(ctx context.Context) ([]D, error)
	Get(ctx context.Context, id int) (D, error)
	Create(ctx context.Context, body any) (D, error)
	Update(ctx context.Context, id int, body any) (D, error)
	Delete(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, activo bool) error
}

// Config describe una pantalla. V es el view model y D el DTO del API.
type Config[V any, D any] struct {
	// Entidad en singular y con mayúscula ("Cliente"); Articulo la acompaña
	// en los mensajes ("el cliente").
	Entidad  string
	Articulo string
	Plural   string
	Femenino bool

	ToView func(D) V
	ToDTO  func(v V, forma upstream.Forma) D
	ID     func(V) int
	SetID  func(*V, int)
	Label  func(V) string

	// Estado; nil si el recurso no tiene estado.
	Status    func(V) (activo bool, presente bool)
	SetStatus func(*V, bool)

	// Claves de caché. StatusKey vacío desactiva el caché de estados.
	StatusKey string
	ListKey   string

	Normalize func(V) V
	// Prepare completa datos que dependen del API (precios, totales) antes
	// de validar.
	Prepare func(ctx context.Context, v V) (V, error)
	// Rules agrega reglas de negocio; others es la lista sin el registro editado.
	Rules func(ctx context.Context, v V, others []V, mode console.Mode) *validation.Errors

	// Protected marca registros que no se pueden editar, cambiar ni borrar.
	Protected    func(V) bool
	ProtectedMsg string

	// Dependents devuelve un mensaje si el registro no se puede borrar.
	Dependents func(ctx context.Context, v V) (string, error)

	// CanToggle permite bloquear un cambio de estado (p.ej. anular es definitivo).
	CanToggle func(v V, nuevo bool) error

	// Guard revisa una edición contra el registro guardado antes de validar;
	// puede completar next con datos de cur.
	Guard func(cur V, next V) (V, error)

	// Reconcile busca el registro recién creado cuando el API falla con 5xx.
	Reconcile func(ctx context.Context, v V) (V, bool, error)

	// AfterSave corre tras un create/update exitoso (p.ej. detalles de compra).
	AfterSave func(ctx context.Context, saved V, input V, mode console.Mode) (V, error)
}

// Deps son las piezas compartidas por todas las pantallas.
type Deps struct {
	Cache    cache.Store
	CacheTTL time.Duration
	Notifier *console.Notifier
	Overlay  *console.Overlay
	Log      logger.Logger
}

type Page[V any, D any] struct {
	cfg     Config[V, D]
	res     Resource[D]
	status  *console.StatusCache
	list    *Snapshot[V]
	notify  *console.Notifier
	overlay *console.Overlay
	log     logger.Logger
}

// Listing es el resultado de Fetch. Stale indica que vino del caché.
type Listing[V any] struct {
	Items []V  `json:"items"`
	Stale bool `json:"stale"`
}

// Result es el resultado de Save.
type Result[V any] struct {
	Item       V    `json:"item"`
	Created    bool `json:"created"`
	Reconciled bool `json:"reconciled"`
}

func New[V any, D any](cfg Config[V, D], res Resource[D], deps Deps) *Page[V, D] {
	if cfg.ListKey == "" {
		cfg.ListKey = strings.ToLower(cfg.Entidad) + "_lista"
	}
	if cfg.Articulo == "" {
		cfg.Articulo = strings.ToLower(cfg.Entidad)
	}
	if cfg.Label == nil {
		cfg.Label = func(v V) string { return fmt.Sprintf("#%d", cfg.ID(v)) }
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Overlay == nil {
		deps.Overlay = console.NewOverlay(0)
	}
	if deps.Notifier == nil {
		deps.Notifier = console.NewNotifier(deps.Overlay, 0)
	}

	p := &Page[V, D]{
		cfg:     cfg,
		res:     res,
		list:    NewSnapshot[V](deps.Cache, cfg.ListKey, deps.CacheTTL, cfg.ID),
		notify:  deps.Notifier,
		overlay: deps.Overlay,
		log:     deps.Log.With(map[string]any{"entidad": cfg.Entidad}),
	}
	if cfg.StatusKey != "" && cfg.Status != nil {
		p.status = console.NewStatusCache(deps.Cache, cfg.StatusKey, deps.CacheTTL)
	}
	return p
}

func (p *Page[V, D]) Entidad() string { return p.cfg.Entidad }

// Notifier expone la cola de toasts para operaciones propias del dominio.
func (p *Page[V, D]) Notifier() *console.Notifier { return p.notify }

// Busy muestra el overlay de la sesión mientras dura una operación.
func (p *Page[V, D]) Busy(session string) (done func()) { return p.overlay.Show(session) }

// Fetch trae la lista del API. Si el API falla se devuelve la última lista
// conocida marcada como Stale y se encola un toast de error.
func (p *Page[V, D]) Fetch(ctx context.Context, session string) (Listing[V], error) {
	hide := p.overlay.Show(session)
	defer hide()

	items, err := p.load(ctx)
	if err == nil {
		return Listing[V]{Items: items}, nil
	}

	ce := console.FromUpstream(err, p.cfg.Articulo)
	p.log.Warn("list failed", map[string]any{"error": err})

	cached, ok := p.list.Load(ctx)
	if !ok {
		p.notify.Error(session, fmt.Sprintf("Error al cargar %s: %s", p.plural(), ce.Message))
		return Listing[V]{}, ce
	}
	p.applyCachedStatus(ctx, cached)
	p.notify.Error(session, fmt.Sprintf("No se pudo actualizar la lista de %s; mostrando datos guardados", p.plural()))
	return Listing[V]{Items: cached, Stale: true}, nil
}

// Items devuelve la lista actual sin toasts: caché si el API falla.
func (p *Page[V, D]) Items(ctx context.Context) ([]V, error) {
	items, err := p.load(ctx)
	if err == nil {
		return items, nil
	}
	if cached, ok := p.list.Load(ctx); ok {
		return cached, nil
	}
	return nil, console.FromUpstream(err, p.cfg.Articulo)
}

func (p *Page[V, D]) load(ctx context.Context) ([]V, error) {
	dtos, err := p.res.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]V, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, p.cfg.ToView(d))
	}
	p.applyCachedStatus(ctx, items)
	if err := p.list.Save(ctx, items); err != nil {
		p.log.Warn("list cache write failed", map[string]any{"error": err})
	}
	return items, nil
}

// applyCachedStatus completa el estado de los registros que vienen sin él
// y refresca el caché con los que sí lo traen.
func (p *Page[V, D]) applyCachedStatus(ctx context.Context, items []V) {
	if p.status == nil {
		return
	}
	cached := p.status.Load(ctx)
	fresh := map[int]bool{}
	for i := range items {
		activo, presente := p.cfg.Status(items[i])
		id := p.cfg.ID(items[i])
		if presente {
			fresh[id] = activo
			continue
		}
		if v, ok := cached[id]; ok {
			p.cfg.SetStatus(&items[i], v)
		}
	}
	if err := p.status.Merge(ctx, fresh); err != nil {
		p.log.Warn("status cache write failed", map[string]any{"error": err})
	}
}

// Find carga un registro. Si el API falla y el registro está en la última
// lista conocida se usa esa copia.
func (p *Page[V, D]) Find(ctx context.Context, id int) (V, error) {
	d, err := p.res.Get(ctx, id)
	if err == nil {
		v := p.cfg.ToView(d)
		if p.cfg.ID(v) == id {
			one := []V{v}
			p.applyCachedStatus(ctx, one)
			return one[0], nil
		}
	}

	if cached, ok := p.list.Load(ctx); ok {
		for _, v := range cached {
			if p.cfg.ID(v) == id {
				one := []V{v}
				p.applyCachedStatus(ctx, one)
				return one[0], nil
			}
		}
	}

	var zero V
	if err != nil && httpclient.StatusOf(err) != 404 {
		return zero, console.FromUpstream(err, p.cfg.Articulo)
	}
	return zero, console.NewError(console.KindNotFound, capitalize(p.cfg.Articulo)+" no existe")
}

// View arma el estado del modal en modo lectura.
func (p *Page[V, D]) View(ctx context.Context, id int) (console.FormState[V], error) {
	v, err := p.Find(ctx, id)
	if err != nil {
		return console.FormState[V]{}, err
	}
	return console.FormState[V]{
		Mode:     console.ModeView,
		Title:    console.Title(console.ModeView, p.cfg.Entidad),
		ReadOnly: true,
		Data:     v,
	}, nil
}

// Edit arma el estado del modal en modo edición.
func (p *Page[V, D]) Edit(ctx context.Context, id int) (console.FormState[V], error) {
	v, err := p.Find(ctx, id)
	if err != nil {
		return console.FormState[V]{}, err
	}
	if p.isProtected(v) {
		return console.FormState[V]{}, console.NewError(console.KindProtected, p.protectedMsg())
	}
	if p.cfg.Guard != nil {
		if _, err := p.cfg.Guard(v, v); err != nil {
			return console.FormState[V]{}, err
		}
	}
	return console.FormState[V]{
		Mode:  console.ModeEdit,
		Title: console.Title(console.ModeEdit, p.cfg.Entidad),
		Data:  v,
	}, nil
}

// Blank arma el modal de alta con los valores iniciales.
func (p *Page[V, D]) Blank(initial V) console.FormState[V] {
	return console.FormState[V]{
		Mode:  console.ModeCreate,
		Title: console.Title(console.ModeCreate, p.cfg.Entidad),
		Data:  initial,
	}
}

// Validate corre el esquema y las reglas de negocio contra la lista actual.
func (p *Page[V, D]) Validate(ctx context.Context, v V, id int) (*validation.Errors, error) {
	errs := validation.Struct(v)
	if p.cfg.Rules == nil {
		return errs, nil
	}

	current, err := p.Items(ctx)
	if err != nil {
		return nil, err
	}
	others := make([]V, 0, len(current))
	for _, it := range current {
		if id != 0 && p.cfg.ID(it) == id {
			continue
		}
		others = append(others, it)
	}

	mode := console.ModeCreate
	if id != 0 {
		mode = console.ModeEdit
	}
	if extra := p.cfg.Rules(ctx, v, others, mode); !extra.Empty() {
		if errs == nil {
			errs = &validation.Errors{}
		}
		for f, m := range extra.Fields {
			errs.Add(f, m)
		}
	}
	return errs, nil
}

// Save crea (id == 0) o actualiza. Si la validación falla no se llama al API.
func (p *Page[V, D]) Save(ctx context.Context, session string, id int, v V) (Result[V], error) {
	if p.cfg.Normalize != nil {
		v = p.cfg.Normalize(v)
	}
	mode := console.ModeCreate
	if id != 0 {
		mode = console.ModeEdit
		p.cfg.SetID(&v, id)

		cur, err := p.Find(ctx, id)
		if err != nil {
			return Result[V]{}, err
		}
		if p.isProtected(cur) {
			return Result[V]{}, console.NewError(console.KindProtected, p.protectedMsg())
		}
		if p.cfg.Status != nil {
			if _, presente := p.cfg.Status(v); !presente {
				activo, _ := p.cfg.Status(cur)
				p.cfg.SetStatus(&v, activo)
			}
		}
		if p.cfg.Guard != nil {
			if v, err = p.cfg.Guard(cur, v); err != nil {
				p.notify.Error(session, console.FriendlyMessage(err, "No se puede editar "+p.cfg.Articulo))
				return Result[V]{}, err
			}
		}
	} else if p.cfg.Status != nil {
		if _, presente := p.cfg.Status(v); !presente {
			p.cfg.SetStatus(&v, true)
		}
	}

	if p.cfg.Prepare != nil {
		var err error
		if v, err = p.cfg.Prepare(ctx, v); err != nil {
			return Result[V]{}, console.FromUpstream(err, p.cfg.Articulo)
		}
	}

	errs, err := p.Validate(ctx, v, id)
	if err != nil {
		return Result[V]{}, err
	}
	if ce := console.FromValidation(errs); ce != nil {
		return Result[V]{}, ce
	}

	hide := p.overlay.Show(session)
	defer hide()

	body := p.cfg.ToDTO(v, p.res.Forma())
	var (
		saved      V
		reconciled bool
	)
	if mode == console.ModeCreate {
		saved, reconciled, err = p.create(ctx, session, v, body)
	} else {
		var d D
		d, err = p.res.Update(ctx, id, body)
		if err == nil {
			saved = p.merge(p.cfg.ToView(d), v, id)
		}
	}
	if err != nil {
		ce := console.FromUpstream(err, p.cfg.Articulo)
		p.notify.Error(session, fmt.Sprintf("Error al guardar %s: %s", p.cfg.Articulo, ce.Message))
		return Result[V]{}, ce
	}

	if p.cfg.AfterSave != nil {
		saved, err = p.cfg.AfterSave(ctx, saved, v, mode)
		if err != nil {
			ce := console.FromUpstream(err, p.cfg.Articulo)
			p.notify.Error(session, ce.Message)
			return Result[V]{}, ce
		}
	}

	p.remember(ctx, saved)

	if reconciled {
		p.notify.Warning(session, fmt.Sprintf("El servidor respondió con error, pero %s %s quedó registrad%s. Verifique los datos.",
			p.cfg.Articulo, p.cfg.Label(saved), p.suffix()))
	} else if mode == console.ModeCreate {
		p.notify.Success(session, fmt.Sprintf("%s cread%s exitosamente", p.cfg.Entidad, p.suffix()))
	} else {
		p.notify.Success(session, fmt.Sprintf("%s actualizad%s exitosamente", p.cfg.Entidad, p.suffix()))
	}

	return Result[V]{Item: saved, Created: mode == console.ModeCreate, Reconciled: reconciled}, nil
}

func (p *Page[V, D]) create(ctx context.Context, session string, v V, body D) (V, bool, error) {
	d, err := p.res.Create(ctx, body)
	if err == nil {
		saved := p.merge(p.cfg.ToView(d), v, 0)
		if p.cfg.ID(saved) == 0 && p.cfg.Reconcile != nil {
			if found, ok, rerr := p.cfg.Reconcile(ctx, v); rerr == nil && ok {
				return found, false, nil
			}
		}
		return saved, false, nil
	}

	he, ok := httpclient.AsHTTPError(err)
	if !ok || !he.IsServerError() || p.cfg.Reconcile == nil {
		return v, false, err
	}

	found, exists, rerr := p.cfg.Reconcile(ctx, v)
	if rerr != nil || !exists {
		p.log.Warn("create failed and record not found on re-read", map[string]any{
			"status": he.StatusCode,
			"error":  err,
		})
		return v, false, err
	}

	p.log.Warn("create reported error but record exists", map[string]any{
		"status": he.StatusCode,
		"id":     p.cfg.ID(found),
	})
	return found, true, nil
}

// merge completa con el input lo que el API no devolvió.
func (p *Page[V, D]) merge(resp V, input V, id int) V {
	if p.cfg.ID(resp) == 0 {
		if id != 0 {
			p.cfg.SetID(&input, id)
		}
		return input
	}
	if p.cfg.Status != nil {
		if _, presente := p.cfg.Status(resp); !presente {
			activo, _ := p.cfg.Status(input)
			p.cfg.SetStatus(&resp, activo)
		}
	}
	return resp
}

func (p *Page[V, D]) remember(ctx context.Context, v V) {
	id := p.cfg.ID(v)
	if id == 0 {
		if err := p.list.Clear(ctx); err != nil {
			p.log.Warn("list cache clear failed", map[string]any{"error": err})
		}
		return
	}
	if err := p.list.Upsert(ctx, v); err != nil {
		p.log.Warn("list cache write failed", map[string]any{"error": err})
	}
	if p.status != nil {
		if activo, presente := p.cfg.Status(v); presente {
			if err := p.status.Record(ctx, id, activo); err != nil {
				p.log.Warn("status cache write failed", map[string]any{"error": err})
			}
		}
	}
}

// ToggleStatus invierte el estado del registro y lo persiste.
func (p *Page[V, D]) ToggleStatus(ctx context.Context, session string, id int) (V, error) {
	var zero V
	if p.cfg.Status == nil {
		return zero, console.NewError(console.KindBadState, p.cfg.Entidad+" no tiene estado")
	}

	cur, err := p.Find(ctx, id)
	if err != nil {
		return zero, err
	}
	if p.isProtected(cur) {
		p.notify.Error(session, p.protectedMsg())
		return zero, console.NewError(console.KindProtected, p.protectedMsg())
	}

	activo, _ := p.cfg.Status(cur)
	nuevo := !activo
	if p.cfg.CanToggle != nil {
		if err := p.cfg.CanToggle(cur, nuevo); err != nil {
			p.notify.Error(session, console.FriendlyMessage(err, "No se puede cambiar el estado"))
			return zero, err
		}
	}
	return p.ApplyStatus(ctx, session, cur, nuevo)
}

// ApplyStatus persiste el estado de un registro ya cargado. No pasa por
// CanToggle: lo usan operaciones del dominio que hacen sus propios chequeos.
func (p *Page[V, D]) ApplyStatus(ctx context.Context, session string, cur V, nuevo bool) (V, error) {
	var zero V
	if p.cfg.Status == nil {
		return zero, console.NewError(console.KindBadState, p.cfg.Entidad+" no tiene estado")
	}
	id := p.cfg.ID(cur)

	hide := p.overlay.Show(session)
	defer hide()

	if err := p.res.SetStatus(ctx, id, nuevo); err != nil {
		ce := console.FromUpstream(err, p.cfg.Articulo)
		p.notify.Error(session, "Error al cambiar el estado: "+ce.Message)
		return zero, ce
	}

	p.cfg.SetStatus(&cur, nuevo)
	p.remember(ctx, cur)

	verbo := "desactivad"
	if nuevo {
		verbo = "activad"
	}
	p.notify.Success(session, fmt.Sprintf("%s %s%s exitosamente", p.cfg.Entidad, verbo, p.suffix()))
	return cur, nil
}

// Delete borra el registro. Sin confirmed devuelve KindConfirm con el diálogo.
// Los chequeos de protección y dependencias van antes que la confirmación y
// si fallan no se llama al API.
func (p *Page[V, D]) Delete(ctx context.Context, session string, id int, confirmed bool) error {
	cur, err := p.Find(ctx, id)
	if err != nil {
		return err
	}
	if p.isProtected(cur) {
		p.notify.Error(session, p.protectedMsg())
		return console.NewError(console.KindProtected, p.protectedMsg())
	}

	if p.cfg.Dependents != nil {
		msg, err := p.cfg.Dependents(ctx, cur)
		if err != nil {
			ce := console.FromUpstream(err, p.cfg.Articulo)
			p.notify.Error(session, "No se pudieron verificar las dependencias: "+ce.Message)
			return ce
		}
		if msg != "" {
			p.notify.Error(session, msg)
			return console.NewError(console.KindConflict, msg)
		}
	}

	if !confirmed {
		return console.ConfirmRequired(console.Confirmation{
			Title:       "Eliminar " + p.cfg.Entidad,
			Message:     fmt.Sprintf("¿Está seguro de eliminar %s %s? Esta acción no se puede deshacer.", p.cfg.Articulo, p.cfg.Label(cur)),
			ConfirmText: "Eliminar",
			Destructive: true,
		})
	}

	hide := p.overlay.Show(session)
	defer hide()

	if err := p.res.Delete(ctx, id); err != nil {
		ce := console.FromDelete(err, p.cfg.Articulo)
		p.notify.Error(session, ce.Message)
		return ce
	}

	if err := p.list.Remove(ctx, id); err != nil {
		p.log.Warn("list cache write failed", map[string]any{"error": err})
	}
	if p.status != nil {
		if err := p.status.Forget(ctx, id); err != nil {
			p.log.Warn("status cache write failed", map[string]any{"error": err})
		}
	}
	p.notify.Success(session, fmt.Sprintf("%s eliminad%s exitosamente", p.cfg.Entidad, p.suffix()))
	return nil
}

// Replace guarda en caché un registro modificado por una operación del dominio.
func (p *Page[V, D]) Replace(ctx context.Context, v V) { p.remember(ctx, v) }

func (p *Page[V, D]) isProtected(v V) bool {
	return p.cfg.Protected != nil && p.cfg.Protected(v)
}

func (p *Page[V, D]) protectedMsg() string {
	if p.cfg.ProtectedMsg != "" {
		return p.cfg.ProtectedMsg
	}
	return fmt.Sprintf("%s no se puede modificar", capitalize(p.cfg.Articulo))
}

func (p *Page[V, D]) suffix() string {
	if p.cfg.Femenino {
		return "a"
	}
	return "o"
}

func (p *Page[V, D]) plural() string {
	if p.cfg.Plural != "" {
		return p.cfg.Plural
	}
	e := strings.ToLower(p.cfg.Entidad)
	if strings.HasSuffix(e, "or") || strings.HasSuffix(e, "ol") {
		return e + "es"
	}
	return e + "s"
}

func capitalize(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) == 0 {
		return ""
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
