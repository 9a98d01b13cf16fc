package mascotas

import (
	"strconv"
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

const fechaLayout = "2006-01-02"

type Mascota struct {
	ID              int    `json:"id"`
	ClienteID       int    `json:"clienteId" validate:"required,gt=0"`
	Nombre          string `json:"nombre" validate:"required,min=2,max=50"`
	EspecieID       int    `json:"especieId" validate:"required,oneof=1 2"`
	EspecieNombre   string `json:"especie"`
	Raza            string `json:"raza" validate:"required,min=2,max=50"`
	Tamano          string `json:"tamano" validate:"required,oneof=Pequeño Mediano Grande"`
	FechaNacimiento string `json:"fechaNacimiento" validate:"omitempty,datetime=2006-01-02"`
	Foto            string `json:"foto" validate:"omitempty,http_url,max=500"`
	crud.Estado
}

func fromDTO(d upstream.Mascota) Mascota {
	id := EspecieID(d.IdEspecie)
	if id == 0 {
		id = EspecieID(d.Especie)
	}
	return Mascota{
		ID:              d.IdMascota,
		ClienteID:       d.IdCliente,
		Nombre:          d.Nombre,
		EspecieID:       id,
		EspecieNombre:   EspecieNombre(id),
		Raza:            d.Raza,
		Tamano:          d.Tamano,
		FechaNacimiento: soloFecha(d.FechaNacimiento),
		Foto:            d.Foto,
		Estado:          crud.EstadoDe(d.Estado),
	}
}

func toDTO(m Mascota, forma upstream.Forma) upstream.Mascota {
	return upstream.Mascota{
		IdMascota:       m.ID,
		IdCliente:       m.ClienteID,
		Nombre:          m.Nombre,
		IdEspecie:       upstream.Flex(strconv.Itoa(m.EspecieID)),
		Especie:         EspecieNombre(m.EspecieID),
		Raza:            m.Raza,
		Tamano:          m.Tamano,
		FechaNacimiento: m.FechaNacimiento,
		Foto:            m.Foto,
		Estado:          m.Wire(forma),
	}
}

func normalize(m Mascota) Mascota {
	m.Nombre = strings.TrimSpace(m.Nombre)
	m.Raza = strings.TrimSpace(m.Raza)
	m.Tamano = strings.TrimSpace(m.Tamano)
	m.FechaNacimiento = soloFecha(m.FechaNacimiento)
	m.Foto = strings.TrimSpace(m.Foto)
	if m.EspecieID == 0 {
		m.EspecieID = EspecieID(m.EspecieNombre)
	}
	m.EspecieNombre = EspecieNombre(m.EspecieID)
	return m
}

// soloFecha recorta "2020-01-31T00:00:00.000Z" a "2020-01-31".
func soloFecha(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(fechaLayout) && s[len(fechaLayout)] == 'T' {
		return s[:len(fechaLayout)]
	}
	return s
}
