package proveedores

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

type Proveedor struct {
	ID              int    `json:"id"`
	Documento       string `json:"documento" validate:"required,min=5,max=20"`
	NombreEmpresa   string `json:"nombreEmpresa" validate:"required,min=2,max=100"`
	PersonaContacto string `json:"personaContacto" validate:"omitempty,min=2,max=100,nombre"`
	Telefono        string `json:"telefono" validate:"required,telefono"`
	Correo          string `json:"correo" validate:"omitempty,email,max=100"`
	Direccion       string `json:"direccion" validate:"omitempty,min=5,max=100"`
	crud.Estado
}

func fromDTO(d upstream.Proveedor) Proveedor {
	return Proveedor{
		ID:              d.IdProveedor,
		Documento:       d.Documento,
		NombreEmpresa:   d.NombreEmpresa,
		PersonaContacto: d.PersonaContacto,
		Telefono:        d.Telefono,
		Correo:          d.Correo,
		Direccion:       d.Direccion,
		Estado:          crud.EstadoDe(d.Estado),
	}
}

func toDTO(p Proveedor, forma upstream.Forma) upstream.Proveedor {
	return upstream.Proveedor{
		IdProveedor:     p.ID,
		Documento:       p.Documento,
		NombreEmpresa:   p.NombreEmpresa,
		PersonaContacto: p.PersonaContacto,
		Telefono:        p.Telefono,
		Correo:          p.Correo,
		Direccion:       p.Direccion,
		Estado:          p.Wire(forma),
	}
}

// normalize deja el NIT sin espacios ni puntos.
func normalize(p Proveedor) Proveedor {
	p.Documento = strings.NewReplacer(" ", "", ".", "").Replace(p.Documento)
	p.NombreEmpresa = strings.TrimSpace(p.NombreEmpresa)
	p.PersonaContacto = strings.TrimSpace(p.PersonaContacto)
	p.Telefono = strings.TrimSpace(p.Telefono)
	p.Correo = strings.ToLower(strings.TrimSpace(p.Correo))
	p.Direccion = strings.TrimSpace(p.Direccion)
	return p
}
