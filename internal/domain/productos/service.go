package productos

import (
	"context"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	MsgPrecio            = "El precio debe ser mayor a 0"
	MsgIvaRequerido      = "Ingrese el porcentaje de IVA"
	MsgIvaRango          = "El IVA debe estar entre 0 y 100"
	MsgCodigoDuplicado   = "Ya existe un producto con este código de barras"
	MsgVencimiento       = "Ingrese la fecha de vencimiento"
	MsgCategoriaInvalida = "La categoría seleccionada no existe"
)

type Service struct {
	*crud.Page[Producto, upstream.Producto]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Producto, upstream.Producto]{
		Entidad:   "Producto",
		Articulo:  "el producto",
		ListKey:   "productosData",
		ToView:    fromDTO,
		ToDTO:     toDTO,
		ID:        func(p Producto) int { return p.ID },
		SetID:     func(p *Producto, id int) { p.ID = id },
		Label:     func(p Producto) string { return p.Nombre },
		Status:    func(p Producto) (bool, bool) { return p.Status() },
		SetStatus: func(p *Producto, v bool) { p.SetActive(v) },
		Normalize: normalize,
		Rules:     s.rules,
	}, api.Productos, deps)
	return s
}

func (s *Service) rules(ctx context.Context, p Producto, others []Producto, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}

	if !p.Precio.GreaterThan(decimal.Zero) {
		errs.Add("precio", MsgPrecio)
	}
	if p.TieneIva {
		switch {
		case p.PorcentajeIva == nil:
			errs.Add("porcentajeIva", MsgIvaRequerido)
		case p.PorcentajeIva.IsNegative() || p.PorcentajeIva.GreaterThan(cien):
			errs.Add("porcentajeIva", MsgIvaRango)
		}
	}
	if p.TieneVencimiento && p.FechaVencimiento == "" {
		errs.Add("fechaVencimiento", MsgVencimiento)
	}
	if p.CodigoBarras != "" {
		for _, o := range others {
			if strings.TrimSpace(o.CodigoBarras) == p.CodigoBarras {
				errs.Add("codigoBarras", MsgCodigoDuplicado)
				break
			}
		}
	}
	if p.CategoriaID > 0 {
		if _, err := s.api.Categorias.Get(ctx, p.CategoriaID); httpclient.StatusOf(err) == 404 {
			errs.Add("categoriaId", MsgCategoriaInvalida)
		}
	}
	return errs
}

// PorCodigo busca un producto activo o inactivo por código de barras.
func (s *Service) PorCodigo(ctx context.Context, codigo string) (Producto, bool, error) {
	codigo = strings.TrimSpace(codigo)
	items, err := s.Items(ctx)
	if err != nil {
		return Producto{}, false, err
	}
	for _, p := range items {
		if p.CodigoBarras == codigo {
			return p, true, nil
		}
	}
	return Producto{}, false, nil
}

// PorCategoria filtra la lista por categoría.
func (s *Service) PorCategoria(ctx context.Context, categoriaID int) ([]Producto, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Producto, 0)
	for _, p := range items {
		if p.CategoriaID == categoriaID {
			out = append(out, p)
		}
	}
	return out, nil
}
