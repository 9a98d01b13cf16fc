package roles

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

type Rol struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre" validate:"required,min=3,max=50"`
	Descripcion string `json:"descripcion" validate:"max=200"`
	// Permisos son ids; nil en un guardado deja las asignaciones como están.
	Permisos []int `json:"permisos,omitempty"`
	crud.Estado
}

type Permiso struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

func fromDTO(d upstream.Rol) Rol {
	return Rol{
		ID:          d.IdRol,
		Nombre:      d.NombreRol,
		Descripcion: d.Descripcion,
		Estado:      crud.EstadoDe(d.Estado),
	}
}

func toDTO(r Rol, forma upstream.Forma) upstream.Rol {
	return upstream.Rol{
		IdRol:       r.ID,
		NombreRol:   r.Nombre,
		Descripcion: r.Descripcion,
		Estado:      r.Wire(forma),
	}
}

func permisoFromDTO(d upstream.Permiso) Permiso {
	return Permiso{ID: d.IdPermiso, Nombre: d.NombrePermiso, Descripcion: d.Descripcion}
}

func normalize(r Rol) Rol {
	r.Nombre = strings.Join(strings.Fields(r.Nombre), " ")
	r.Descripcion = strings.TrimSpace(r.Descripcion)
	return r
}
