package usuarios

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

type Usuario struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre" validate:"required,min=2,max=50,nombre"`
	Apellido string `json:"apellido" validate:"required,min=2,max=50,nombre"`
	Correo   string `json:"correo" validate:"required,email,max=100"`
	RolID    int    `json:"rolId" validate:"required,gt=0"`
	// Contrasena sólo viaja hacia el API; nunca se devuelve.
	Contrasena string `json:"contrasena,omitempty" validate:"omitempty,min=8,max=72"`
	crud.Estado
}

func fromDTO(d upstream.Usuario) Usuario {
	return Usuario{
		ID:       d.IdUsuario,
		Nombre:   d.Nombre,
		Apellido: d.Apellido,
		Correo:   d.Correo,
		RolID:    d.IdRol,
		Estado:   crud.EstadoDe(d.Estado),
	}
}

func toDTO(u Usuario, forma upstream.Forma) upstream.Usuario {
	return upstream.Usuario{
		IdUsuario:  u.ID,
		Nombre:     u.Nombre,
		Apellido:   u.Apellido,
		Correo:     u.Correo,
		IdRol:      u.RolID,
		Contrasena: u.Contrasena,
		Estado:     u.Wire(forma),
	}
}

func normalize(u Usuario) Usuario {
	u.Nombre = strings.TrimSpace(u.Nombre)
	u.Apellido = strings.TrimSpace(u.Apellido)
	u.Correo = strings.ToLower(strings.TrimSpace(u.Correo))
	return u
}
