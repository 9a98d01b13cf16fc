package citas

import (
	"strings"
	"time"

	"pet-store-console/internal/upstream"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	EstadoProgramada = "Programada"
	EstadoConfirmada = "Confirmada"
	EstadoCompletada = "Completada"
	EstadoCancelada  = "Cancelada"
)

var ErrFechaInvalida = errors.New("fecha inválida")

// Estados en el orden en que se muestran en el selector.
func Estados() []string {
	return []string{EstadoProgramada, EstadoConfirmada, EstadoCompletada, EstadoCancelada}
}

type Cita struct {
	ID            int             `json:"id"`
	ClienteID     int             `json:"clienteId" validate:"required,gt=0"`
	MascotaID     int             `json:"mascotaId" validate:"required,gt=0"`
	Fecha         string          `json:"fecha" validate:"required"`
	Estado        string          `json:"estado" validate:"required,oneof=Programada Confirmada Completada Cancelada"`
	Notas         string          `json:"notas" validate:"max=500"`
	Servicios     []Linea         `json:"servicios" validate:"required,min=1,dive"`
	PrecioTotal   decimal.Decimal `json:"precioTotal"`
	DuracionTotal int             `json:"duracionTotal"`
}

// Linea es un servicio agregado a la cita con el precio y la duración
// vigentes al agendar.
type Linea struct {
	ServicioID int             `json:"servicioId" validate:"required,gt=0"`
	Nombre     string          `json:"nombre,omitempty"`
	Precio     decimal.Decimal `json:"precio"`
	Duracion   int             `json:"duracion"`
}

var layouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"}

// ParseFecha acepta las variantes de fecha-hora que envían el formulario y el API.
func ParseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrFechaInvalida, "%q", s)
}

// Totales suma precio y duración de las líneas.
func (c Cita) Totales() Cita {
	c.PrecioTotal, c.DuracionTotal = decimal.Zero, 0
	for _, l := range c.Servicios {
		c.PrecioTotal = c.PrecioTotal.Add(l.Precio)
		c.DuracionTotal += l.Duracion
	}
	return c
}

func fromDTO(d upstream.Cita) Cita {
	c := Cita{
		ID:            d.IdCita,
		ClienteID:     d.IdCliente,
		MascotaID:     d.IdMascota,
		Fecha:         d.Fecha,
		Estado:        estadoCanonico(d.Estado),
		Notas:         d.Notas,
		PrecioTotal:   d.PrecioTotal,
		DuracionTotal: d.DuracionTotal,
		Servicios:     make([]Linea, 0, len(d.Servicios)),
	}
	for _, s := range d.Servicios {
		c.Servicios = append(c.Servicios, Linea{ServicioID: s.IdServicio, Precio: s.Precio, Duracion: s.Duracion})
	}
	if c.PrecioTotal.IsZero() && c.DuracionTotal == 0 {
		c = c.Totales()
	}
	return c
}

func toDTO(c Cita, _ upstream.Forma) upstream.Cita {
	d := upstream.Cita{
		IdCita:        c.ID,
		IdCliente:     c.ClienteID,
		IdMascota:     c.MascotaID,
		Fecha:         c.Fecha,
		Estado:        c.Estado,
		Notas:         c.Notas,
		PrecioTotal:   c.PrecioTotal,
		DuracionTotal: c.DuracionTotal,
		Servicios:     make([]upstream.CitaServicio, 0, len(c.Servicios)),
	}
	for _, l := range c.Servicios {
		d.Servicios = append(d.Servicios, upstream.CitaServicio{IdServicio: l.ServicioID, Precio: l.Precio, Duracion: l.Duracion})
	}
	return d
}

func normalize(c Cita) Cita {
	c.Fecha = strings.TrimSpace(c.Fecha)
	c.Notas = strings.TrimSpace(c.Notas)
	c.Estado = estadoCanonico(c.Estado)
	return c
}

// estadoCanonico corrige mayúsculas ("cancelada" -> "Cancelada").
func estadoCanonico(s string) string {
	s = strings.TrimSpace(s)
	for _, e := range Estados() {
		if strings.EqualFold(e, s) {
			return e
		}
	}
	return s
}
