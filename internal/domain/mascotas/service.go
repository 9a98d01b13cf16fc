package mascotas

import (
	"context"
	"time"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgClienteInexistente = "El cliente seleccionado no existe"
	MsgFechaFutura        = "La fecha de nacimiento no puede ser futura"
)

type Service struct {
	*crud.Page[Mascota, upstream.Mascota]
	api *upstream.Client
	now func() time.Time
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api, now: time.Now}
	s.Page = crud.New(crud.Config[Mascota, upstream.Mascota]{
		Entidad:   "Mascota",
		Articulo:  "la mascota",
		Femenino:  true,
		StatusKey: console.KeyMascotasEstados,
		ListKey:   console.KeyMascotasData,
		ToView:    fromDTO,
		ToDTO:     toDTO,
		ID:        func(m Mascota) int { return m.ID },
		SetID:     func(m *Mascota, id int) { m.ID = id },
		Label:     func(m Mascota) string { return m.Nombre },
		Status:    func(m Mascota) (bool, bool) { return m.Status() },
		SetStatus: func(m *Mascota, v bool) { m.SetActive(v) },
		Normalize: normalize,
		Rules:     s.rules,
	}, api.Mascotas, deps)
	return s
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) rules(ctx context.Context, m Mascota, _ []Mascota, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}

	if m.FechaNacimiento != "" {
		if f, err := time.Parse(fechaLayout, m.FechaNacimiento); err == nil {
			hoy := s.now()
			if f.After(time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC)) {
				errs.Add("fechaNacimiento", MsgFechaFutura)
			}
		}
	}

	if m.ClienteID > 0 {
		if _, err := s.api.Clientes.Get(ctx, m.ClienteID); err != nil {
			if httpclient.StatusOf(err) == 404 {
				errs.Add("clienteId", MsgClienteInexistente)
			}
		}
	}
	return errs
}

// DelCliente filtra la lista por dueño.
func (s *Service) DelCliente(ctx context.Context, clienteID int) ([]Mascota, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Mascota, 0)
	for _, m := range items {
		if m.ClienteID == clienteID {
			out = append(out, m)
		}
	}
	return out, nil
}
