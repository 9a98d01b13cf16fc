package compras

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	MsgAnulada           = "La compra ya está anulada y no se puede reactivar"
	MsgUsarAnular        = "Para anular la compra use la opción Anular"
	MsgAnuladaEdicion    = "No se puede editar una compra anulada"
	MsgSoloAnuladas      = "Solo se pueden eliminar compras anuladas"
	MsgProveedorInvalido = "El proveedor seleccionado no existe"
	MsgPrecioLinea       = "El precio unitario debe ser mayor a 0"
	MsgIvaLinea          = "El IVA debe estar entre 0 y 100"
	MsgProductoInvalido  = "El producto seleccionado no existe"
)

type Service struct {
	*crud.Page[Compra, upstream.Compra]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Compra, upstream.Compra]{
		Entidad:    "Compra",
		Articulo:   "la compra",
		Femenino:   true,
		StatusKey:  console.KeyComprasEstados,
		ListKey:    console.KeyComprasCache,
		ToView:     fromDTO,
		ToDTO:      toDTO,
		ID:         func(c Compra) int { return c.ID },
		SetID:      func(c *Compra, id int) { c.ID = id },
		Label:      func(c Compra) string { return fmt.Sprintf("#%d", c.ID) },
		Status:     func(c Compra) (bool, bool) { return c.Status() },
		SetStatus:  func(c *Compra, v bool) { c.SetActive(v) },
		Normalize:  normalize,
		Rules:      s.rules,
		Dependents: dependents,
		CanToggle:  canToggle,
		Guard:      guard,
		AfterSave:  s.saveDetalles,
	}, api.Compras, deps)
	return s
}

func (s *Service) rules(ctx context.Context, c Compra, _ []Compra, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for i, d := range c.Detalles {
		campo := "detalles[" + strconv.Itoa(i) + "]"
		if !d.PrecioUnitario.GreaterThan(decimal.Zero) {
			errs.Add(campo+".precioUnitario", MsgPrecioLinea)
		}
		if d.PorcentajeIva.IsNegative() || d.PorcentajeIva.GreaterThan(cien) {
			errs.Add(campo+".porcentajeIva", MsgIvaLinea)
		}
		if d.ProductoID > 0 {
			if _, err := s.api.Productos.Get(ctx, d.ProductoID); httpclient.StatusOf(err) == 404 {
				errs.Add(campo+".productoId", MsgProductoInvalido)
			}
		}
	}
	if c.ProveedorID > 0 {
		if _, err := s.api.Proveedores.Get(ctx, c.ProveedorID); httpclient.StatusOf(err) == 404 {
			errs.Add("proveedorId", MsgProveedorInvalido)
		}
	}
	return errs
}

func dependents(_ context.Context, c Compra) (string, error) {
	if c.Activo {
		return MsgSoloAnuladas, nil
	}
	return "", nil
}

// canToggle: el cambio de estado genérico no aplica a compras. Anular
// tiene su propia confirmación y reactivar no existe.
func canToggle(c Compra, nuevo bool) error {
	if !c.Activo && nuevo {
		return console.NewError(console.KindBadState, MsgAnulada)
	}
	return console.NewError(console.KindBadState, MsgUsarAnular)
}

func guard(cur, next Compra) (Compra, error) {
	if !cur.Activo {
		return next, console.NewError(console.KindBadState, MsgAnuladaEdicion)
	}
	if activo, ok := next.Status(); ok && !activo {
		return next, console.NewError(console.KindBadState, MsgUsarAnular)
	}
	return next, nil
}

// saveDetalles guarda las líneas después del encabezado. En una edición las
// líneas anteriores se reemplazan.
func (s *Service) saveDetalles(ctx context.Context, saved Compra, input Compra, mode console.Mode) (Compra, error) {
	if mode == console.ModeEdit {
		old, err := s.Detalles(ctx, saved.ID)
		if err != nil {
			return saved, err
		}
		for _, d := range old {
			if err := s.api.Detalles.Delete(ctx, d.ID); err != nil && httpclient.StatusOf(err) != 404 {
				return saved, errors.Wrapf(err, "delete detalle %d", d.ID)
			}
		}
	}

	lineas := make([]Detalle, 0, len(input.Detalles))
	for _, d := range input.Detalles {
		created, err := s.api.Detalles.Create(ctx, detalleToDTO(saved.ID, d))
		if err != nil {
			return saved, errors.Wrapf(err, "create detalle compra %d", saved.ID)
		}
		l := detalleFromDTO(created)
		l.Subtotal, l.Iva = d.Subtotal, d.Iva
		lineas = append(lineas, l)
	}
	saved.Detalles = lineas
	saved.Subtotal, saved.TotalIva, saved.Total = input.Subtotal, input.TotalIva, input.Total
	return saved, nil
}

// Detalles devuelve las líneas de una compra.
func (s *Service) Detalles(ctx context.Context, compraID int) ([]Detalle, error) {
	all, err := s.api.Detalles.Search(ctx, url.Values{"IdCompra": {strconv.Itoa(compraID)}})
	if err != nil {
		return nil, console.FromUpstream(err, "la compra")
	}
	out := make([]Detalle, 0, len(all))
	for _, d := range all {
		if d.IdCompra == compraID {
			out = append(out, detalleFromDTO(d))
		}
	}
	return out, nil
}

// Anular pasa la compra a inactiva. Pide confirmación porque no tiene vuelta atrás.
func (s *Service) Anular(ctx context.Context, session string, id int, confirmed bool) (Compra, error) {
	cur, err := s.Find(ctx, id)
	if err != nil {
		return Compra{}, err
	}
	if !cur.Activo {
		s.Notifier().Error(session, "La compra ya está anulada")
		return Compra{}, console.NewError(console.KindBadState, "La compra ya está anulada")
	}
	if !confirmed {
		return Compra{}, console.ConfirmRequired(console.Confirmation{
			Title:       "Anular Compra",
			Message:     fmt.Sprintf("¿Está seguro de anular la compra #%d? Esta acción no se puede deshacer.", id),
			ConfirmText: "Anular",
			Destructive: true,
		})
	}
	return s.ApplyStatus(ctx, session, cur, false)
}
