package servicios

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"

	"github.com/shopspring/decimal"
)

type Servicio struct {
	ID          int             `json:"id"`
	TipoID      int             `json:"tipoServicioId" validate:"required,gt=0"`
	Nombre      string          `json:"nombre" validate:"required,min=3,max=100"`
	Descripcion string          `json:"descripcion" validate:"max=500"`
	Precio      decimal.Decimal `json:"precio"`
	Duracion    int             `json:"duracion" validate:"required,min=1,max=480"`
	QueIncluye  string          `json:"queIncluye" validate:"max=500"`
	Foto        string          `json:"foto" validate:"omitempty,http_url"`
	crud.Estado
}

type TipoServicio struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre" validate:"required,min=3,max=50"`
	Descripcion string `json:"descripcion" validate:"max=200"`
	crud.Estado
}

func fromDTO(d upstream.Servicio) Servicio {
	return Servicio{
		ID:          d.IdServicio,
		TipoID:      d.IdTipoServicio,
		Nombre:      d.Nombre,
		Descripcion: d.Descripcion,
		Precio:      d.Precio,
		Duracion:    d.Duracion,
		QueIncluye:  d.QueIncluye,
		Foto:        d.Foto,
		Estado:      crud.EstadoDe(d.Estado),
	}
}

func toDTO(s Servicio, forma upstream.Forma) upstream.Servicio {
	return upstream.Servicio{
		IdServicio:     s.ID,
		IdTipoServicio: s.TipoID,
		Nombre:         s.Nombre,
		Descripcion:    s.Descripcion,
		Precio:         s.Precio,
		Duracion:       s.Duracion,
		QueIncluye:     s.QueIncluye,
		Foto:           s.Foto,
		Estado:         s.Wire(forma),
	}
}

func normalize(s Servicio) Servicio {
	s.Nombre = strings.TrimSpace(s.Nombre)
	s.Descripcion = strings.TrimSpace(s.Descripcion)
	s.QueIncluye = strings.TrimSpace(s.QueIncluye)
	s.Foto = strings.TrimSpace(s.Foto)
	return s
}

func tipoFromDTO(d upstream.TipoServicio) TipoServicio {
	return TipoServicio{
		ID:          d.IdTipoServicio,
		Nombre:      d.Nombre,
		Descripcion: d.Descripcion,
		Estado:      crud.EstadoDe(d.Estado),
	}
}

func tipoToDTO(t TipoServicio, forma upstream.Forma) upstream.TipoServicio {
	return upstream.TipoServicio{
		IdTipoServicio: t.ID,
		Nombre:         t.Nombre,
		Descripcion:    t.Descripcion,
		Estado:         t.Wire(forma),
	}
}

func normalizeTipo(t TipoServicio) TipoServicio {
	t.Nombre = strings.Join(strings.Fields(t.Nombre), " ")
	t.Descripcion = strings.TrimSpace(t.Descripcion)
	return t
}
