package categorias

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

type Categoria struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre" validate:"required,min=3,max=50"`
	Descripcion string `json:"descripcion" validate:"max=200"`
	crud.Estado
}

func fromDTO(d upstream.Categoria) Categoria {
	return Categoria{
		ID:          d.IdCategoria,
		Nombre:      d.NombreCategoria,
		Descripcion: d.Descripcion,
		Estado:      crud.EstadoDe(d.Estado),
	}
}

func toDTO(c Categoria, forma upstream.Forma) upstream.Categoria {
	return upstream.Categoria{
		IdCategoria:     c.ID,
		NombreCategoria: c.Nombre,
		Descripcion:     c.Descripcion,
		Estado:          c.Wire(forma),
	}
}

func normalize(c Categoria) Categoria {
	c.Nombre = strings.TrimSpace(c.Nombre)
	c.Descripcion = strings.TrimSpace(c.Descripcion)
	return c
}
