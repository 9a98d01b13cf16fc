package citas

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgYaCancelada        = "Esta cita ya está cancelada."
	MsgCompletada         = "No se puede cancelar una cita completada"
	MsgMascotaAjena       = "La mascota no pertenece al cliente seleccionado"
	MsgMascotaInexistente = "La mascota seleccionada no existe"
	MsgFechaPasada        = "La fecha de la cita no puede estar en el pasado"
	MsgFechaInvalida      = "Ingrese una fecha y hora válidas"
	MsgServicioInvalido   = "El servicio seleccionado no existe"
	MsgEstadoInvalido     = "Estado de cita inválido"
	MsgSinCambio          = "La cita ya tiene ese estado"
	MsgCompletadaEdicion  = "No se puede modificar una cita completada"
	MsgEstadoEnEdicion    = "El estado de la cita se cambia desde las opciones de estado"
)

type Service struct {
	*crud.Page[Cita, upstream.Cita]
	api *upstream.Client
	now func() time.Time
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api, now: time.Now}
	s.Page = crud.New(crud.Config[Cita, upstream.Cita]{
		Entidad:   "Cita",
		Articulo:  "la cita",
		Femenino:  true,
		ListKey:   "citasData",
		ToView:    fromDTO,
		ToDTO:     toDTO,
		ID:        func(c Cita) int { return c.ID },
		SetID:     func(c *Cita, id int) { c.ID = id },
		Label:     func(c Cita) string { return fmt.Sprintf("#%d", c.ID) },
		Normalize: normalize,
		Prepare:   s.prepare,
		Rules:     s.rules,
		Guard:     guard,
	}, api.Citas, deps)
	return s
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// prepare toma precio y duración de cada servicio del catálogo; lo que
// mande el cliente en la línea se descarta.
func (s *Service) prepare(ctx context.Context, c Cita) (Cita, error) {
	if c.Estado == "" {
		c.Estado = EstadoProgramada
	}

	errs := &validation.Errors{}
	lineas := make([]Linea, 0, len(c.Servicios))
	for i, l := range c.Servicios {
		if l.ServicioID <= 0 {
			lineas = append(lineas, Linea{ServicioID: l.ServicioID})
			continue
		}
		d, err := s.api.Servicios.Get(ctx, l.ServicioID)
		switch {
		case httpclient.StatusOf(err) == 404:
			errs.Add("servicios["+strconv.Itoa(i)+"].servicioId", MsgServicioInvalido)
			lineas = append(lineas, Linea{ServicioID: l.ServicioID})
			continue
		case err != nil:
			return c, err
		}
		lineas = append(lineas, Linea{ServicioID: d.IdServicio, Nombre: d.Nombre, Precio: d.Precio, Duracion: d.Duracion})
	}
	c.Servicios = lineas
	c = c.Totales()
	if ce := console.FromValidation(errs); ce != nil {
		return c, ce
	}
	return c, nil
}

// guard: las citas canceladas o completadas no se editan y el estado solo
// cambia con Cancel / ChangeStatus.
func guard(cur, next Cita) (Cita, error) {
	switch cur.Estado {
	case EstadoCancelada:
		return next, console.NewError(console.KindBadState, MsgYaCancelada)
	case EstadoCompletada:
		return next, console.NewError(console.KindBadState, MsgCompletadaEdicion)
	}
	if next.Estado == "" {
		next.Estado = cur.Estado
	}
	if next.Estado != cur.Estado {
		return next, console.NewError(console.KindBadState, MsgEstadoEnEdicion)
	}
	return next, nil
}

func (s *Service) rules(ctx context.Context, c Cita, _ []Cita, mode console.Mode) *validation.Errors {
	errs := &validation.Errors{}

	if c.Fecha != "" {
		t, err := ParseFecha(c.Fecha)
		switch {
		case err != nil:
			errs.Add("fecha", MsgFechaInvalida)
		case mode == console.ModeCreate && t.Before(s.now()):
			errs.Add("fecha", MsgFechaPasada)
		}
	}

	if c.MascotaID > 0 {
		m, err := s.api.Mascotas.Get(ctx, c.MascotaID)
		switch {
		case httpclient.StatusOf(err) == 404:
			errs.Add("mascotaId", MsgMascotaInexistente)
		case err == nil && c.ClienteID > 0 && m.IdCliente != c.ClienteID:
			errs.Add("mascotaId", MsgMascotaAjena)
		}
	}
	return errs
}

// Cancel cancela la cita. Una cita cancelada o completada no cambia.
func (s *Service) Cancel(ctx context.Context, session string, id int, confirmed bool) (Cita, error) {
	cur, err := s.Find(ctx, id)
	if err != nil {
		return Cita{}, err
	}
	switch cur.Estado {
	case EstadoCancelada:
		s.Notifier().Error(session, MsgYaCancelada)
		return Cita{}, console.NewError(console.KindBadState, MsgYaCancelada)
	case EstadoCompletada:
		s.Notifier().Error(session, MsgCompletada)
		return Cita{}, console.NewError(console.KindBadState, MsgCompletada)
	}
	if !confirmed {
		return Cita{}, console.ConfirmRequired(console.Confirmation{
			Title:       "Cancelar Cita",
			Message:     fmt.Sprintf("¿Está seguro de cancelar la cita #%d?", id),
			ConfirmText: "Cancelar cita",
			CancelText:  "Volver",
			Destructive: true,
		})
	}
	return s.setEstado(ctx, session, cur, EstadoCancelada, "Cita cancelada exitosamente")
}

// ChangeStatus mueve la cita a otro estado válido.
func (s *Service) ChangeStatus(ctx context.Context, session string, id int, estado string) (Cita, error) {
	nuevo := estadoCanonico(estado)
	valido := false
	for _, e := range Estados() {
		valido = valido || e == nuevo
	}
	if !valido {
		return Cita{}, console.Invalid("estado", MsgEstadoInvalido)
	}
	if nuevo == EstadoCancelada {
		return s.Cancel(ctx, session, id, true)
	}

	cur, err := s.Find(ctx, id)
	if err != nil {
		return Cita{}, err
	}
	if cur.Estado == EstadoCancelada {
		s.Notifier().Error(session, MsgYaCancelada)
		return Cita{}, console.NewError(console.KindBadState, MsgYaCancelada)
	}
	if cur.Estado == nuevo {
		return Cita{}, console.NewError(console.KindBadState, MsgSinCambio)
	}
	return s.setEstado(ctx, session, cur, nuevo, "Estado de la cita actualizado a "+nuevo)
}

func (s *Service) setEstado(ctx context.Context, session string, cur Cita, estado, msg string) (Cita, error) {
	hide := s.Busy(session)
	defer hide()

	cur.Estado = estado
	if _, err := s.api.Citas.Update(ctx, cur.ID, toDTO(cur, s.api.Citas.Forma())); err != nil {
		ce := console.FromUpstream(err, "la cita")
		s.Notifier().Error(session, "Error al actualizar la cita: "+ce.Message)
		return Cita{}, ce
	}
	s.Replace(ctx, cur)
	s.Notifier().Success(session, msg)
	return cur, nil
}

// DeCliente lista las citas de un cliente, más recientes primero.
func (s *Service) DeCliente(ctx context.Context, clienteID int) ([]Cita, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Cita, 0)
	for _, c := range items {
		if c.ClienteID == clienteID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	return out, nil
}
