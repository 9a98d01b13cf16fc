package categorias

import (
	"context"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgDuplicada    = "Ya existe una categoría con este nombre"
	MsgConProductos = "No se puede eliminar la categoría porque tiene productos asociados"
	listKey         = "categoriasData"
)

type Service struct {
	*crud.Page[Categoria, upstream.Categoria]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Categoria, upstream.Categoria]{
		Entidad:    "Categoría",
		Articulo:   "la categoría",
		Plural:     "categorías",
		Femenino:   true,
		ListKey:    listKey,
		ToView:     fromDTO,
		ToDTO:      toDTO,
		ID:         func(c Categoria) int { return c.ID },
		SetID:      func(c *Categoria, id int) { c.ID = id },
		Label:      func(c Categoria) string { return `"` + c.Nombre + `"` },
		Status:     func(c Categoria) (bool, bool) { return c.Status() },
		SetStatus:  func(c *Categoria, v bool) { c.SetActive(v) },
		Normalize:  normalize,
		Rules:      rules,
		Dependents: s.dependents,
	}, api.Categorias, deps)
	return s
}

func rules(_ context.Context, c Categoria, others []Categoria, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for _, o := range others {
		if strings.EqualFold(strings.TrimSpace(o.Nombre), c.Nombre) {
			errs.Add("nombre", MsgDuplicada)
			break
		}
	}
	return errs
}

func (s *Service) dependents(ctx context.Context, c Categoria) (string, error) {
	productos, err := s.api.Productos.List(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range productos {
		if p.IdCategoria == c.ID {
			return MsgConProductos, nil
		}
	}
	return "", nil
}
