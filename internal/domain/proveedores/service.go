package proveedores

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgDocumentoDuplicado = "Ya existe un proveedor con este documento"
	MsgConCompras         = "No se puede eliminar el proveedor porque tiene compras asociadas"
)

type Service struct {
	*crud.Page[Proveedor, upstream.Proveedor]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Proveedor, upstream.Proveedor]{
		Entidad:    "Proveedor",
		Articulo:   "el proveedor",
		Plural:     "proveedores",
		StatusKey:  console.KeyProveedoresEstados,
		ListKey:    "proveedoresData",
		ToView:     fromDTO,
		ToDTO:      toDTO,
		ID:         func(p Proveedor) int { return p.ID },
		SetID:      func(p *Proveedor, id int) { p.ID = id },
		Label:      func(p Proveedor) string { return p.NombreEmpresa },
		Status:     func(p Proveedor) (bool, bool) { return p.Status() },
		SetStatus:  func(p *Proveedor, v bool) { p.SetActive(v) },
		Normalize:  normalize,
		Rules:      rules,
		Dependents: s.dependents,
		Reconcile:  s.reconcile,
	}, api.Proveedores, deps)
	return s
}

func rules(_ context.Context, p Proveedor, others []Proveedor, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for _, o := range others {
		if normalize(o).Documento == p.Documento {
			errs.Add("documento", MsgDocumentoDuplicado)
			break
		}
	}
	return errs
}

func (s *Service) dependents(ctx context.Context, p Proveedor) (string, error) {
	compras, err := s.api.Compras.Search(ctx, url.Values{"IdProveedor": {strconv.Itoa(p.ID)}})
	if err != nil {
		return "", err
	}
	for _, c := range compras {
		if c.IdProveedor == p.ID {
			return MsgConCompras, nil
		}
	}
	return "", nil
}

func (s *Service) reconcile(ctx context.Context, p Proveedor) (Proveedor, bool, error) {
	all, err := s.api.Proveedores.List(ctx)
	if err != nil {
		return Proveedor{}, false, err
	}
	for _, d := range all {
		if strings.TrimSpace(d.Documento) == p.Documento {
			return fromDTO(d), true, nil
		}
	}
	return Proveedor{}, false, nil
}

// Activos lista los proveedores que se pueden elegir en una compra.
func (s *Service) Activos(ctx context.Context) ([]Proveedor, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Proveedor, 0, len(items))
	for _, p := range items {
		if p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}
