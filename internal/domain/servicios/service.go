package servicios

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
	MsgPrecio        = "El precio debe ser mayor a 0"
	MsgTipoInvalido  = "El tipo de servicio seleccionado no existe"
	MsgTipoDuplicado = "Ya existe un tipo de servicio con este nombre"
	MsgTipoEnUso     = "No se puede eliminar el tipo de servicio porque tiene servicios asociados"
)

type Service struct {
	*crud.Page[Servicio, upstream.Servicio]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Servicio, upstream.Servicio]{
		Entidad:   "Servicio",
		Articulo:  "el servicio",
		ListKey:   "serviciosData",
		ToView:    fromDTO,
		ToDTO:     toDTO,
		ID:        func(v Servicio) int { return v.ID },
		SetID:     func(v *Servicio, id int) { v.ID = id },
		Label:     func(v Servicio) string { return v.Nombre },
		Status:    func(v Servicio) (bool, bool) { return v.Status() },
		SetStatus: func(v *Servicio, b bool) { v.SetActive(b) },
		Normalize: normalize,
		Rules:     s.rules,
	}, api.Servicios, deps)
	return s
}

func (s *Service) rules(ctx context.Context, v Servicio, _ []Servicio, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	if !v.Precio.GreaterThan(decimal.Zero) {
		errs.Add("precio", MsgPrecio)
	}
	if v.TipoID > 0 {
		if _, err := s.api.TiposServicio.Get(ctx, v.TipoID); httpclient.StatusOf(err) == 404 {
			errs.Add("tipoServicioId", MsgTipoInvalido)
		}
	}
	return errs
}

// PorTipo lista los servicios de un tipo.
func (s *Service) PorTipo(ctx context.Context, tipoID int) ([]Servicio, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Servicio, 0)
	for _, v := range items {
		if v.TipoID == tipoID {
			out = append(out, v)
		}
	}
	return out, nil
}

type TiposService struct {
	*crud.Page[TipoServicio, upstream.TipoServicio]
	servicios *Service
}

func NewTiposService(api *upstream.Client, servicios *Service, deps crud.Deps) *TiposService {
	s := &TiposService{servicios: servicios}
	s.Page = crud.New(crud.Config[TipoServicio, upstream.TipoServicio]{
		Entidad:    "Tipo de servicio",
		Articulo:   "el tipo de servicio",
		Plural:     "tipos de servicio",
		ListKey:    "tiposServicioData",
		ToView:     tipoFromDTO,
		ToDTO:      tipoToDTO,
		ID:         func(t TipoServicio) int { return t.ID },
		SetID:      func(t *TipoServicio, id int) { t.ID = id },
		Label:      func(t TipoServicio) string { return t.Nombre },
		Status:     func(t TipoServicio) (bool, bool) { return t.Status() },
		SetStatus:  func(t *TipoServicio, b bool) { t.SetActive(b) },
		Normalize:  normalizeTipo,
		Rules:      tipoRules,
		Dependents: s.dependents,
	}, api.TiposServicio, deps)
	return s
}

func tipoRules(_ context.Context, t TipoServicio, others []TipoServicio, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for _, o := range others {
		if strings.EqualFold(strings.TrimSpace(o.Nombre), t.Nombre) {
			errs.Add("nombre", MsgTipoDuplicado)
			break
		}
	}
	return errs
}

func (s *TiposService) dependents(ctx context.Context, t TipoServicio) (string, error) {
	usados, err := s.servicios.PorTipo(ctx, t.ID)
	if err != nil {
		return "", err
	}
	if len(usados) > 0 {
		return MsgTipoEnUso, nil
	}
	return "", nil
}
