package clientes

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgProtegido          = "No se puede modificar el cliente Consumidor Final"
	MsgConMascotas        = "No se puede eliminar el cliente porque tiene mascotas asociadas"
	MsgDocumentoDuplicado = "Ya existe un cliente con este documento"
	MsgCorreoDuplicado    = "Ya existe un cliente con este correo"
)

type Service struct {
	*crud.Page[Cliente, upstream.Cliente]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Cliente, upstream.Cliente]{
		Entidad:      "Cliente",
		Articulo:     "el cliente",
		StatusKey:    console.KeyClientesEstados,
		ListKey:      "clientesData",
		ToView:       fromDTO,
		ToDTO:        toDTO,
		ID:           func(c Cliente) int { return c.ID },
		SetID:        func(c *Cliente, id int) { c.ID = id },
		Label:        Cliente.NombreCompleto,
		Status:       func(c Cliente) (bool, bool) { return c.Status() },
		SetStatus:    func(c *Cliente, v bool) { c.SetActive(v) },
		Normalize:    normalize,
		Rules:        rules,
		Protected:    EsConsumidorFinal,
		ProtectedMsg: MsgProtegido,
		Dependents:   s.dependents,
		Reconcile:    s.reconcile,
	}, api.Clientes, deps)
	return s
}

func rules(_ context.Context, c Cliente, others []Cliente, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for _, o := range others {
		if strings.TrimSpace(o.Documento) == c.Documento {
			errs.Add("documento", MsgDocumentoDuplicado)
		}
		if c.Correo != "" && strings.EqualFold(strings.TrimSpace(o.Correo), c.Correo) {
			errs.Add("correo", MsgCorreoDuplicado)
		}
	}
	return errs
}

func (s *Service) dependents(ctx context.Context, c Cliente) (string, error) {
	mascotas, err := s.Mascotas(ctx, c.ID)
	if err != nil {
		return "", err
	}
	if len(mascotas) > 0 {
		return MsgConMascotas, nil
	}
	return "", nil
}

// Mascotas devuelve las mascotas registradas a nombre del cliente.
func (s *Service) Mascotas(ctx context.Context, clienteID int) ([]upstream.Mascota, error) {
	all, err := s.api.Mascotas.Search(ctx, url.Values{"IdCliente": {strconv.Itoa(clienteID)}})
	if err != nil {
		return nil, err
	}
	out := make([]upstream.Mascota, 0, len(all))
	for _, m := range all {
		if m.IdCliente == clienteID {
			out = append(out, m)
		}
	}
	return out, nil
}

// BuscarPorDocumento busca un cliente por documento exacto.
func (s *Service) BuscarPorDocumento(ctx context.Context, documento string) (Cliente, bool, error) {
	documento = strings.TrimSpace(documento)
	found, err := s.api.Clientes.Search(ctx, url.Values{"Documento": {documento}})
	if err != nil {
		return Cliente{}, false, console.FromUpstream(err, "el cliente")
	}
	for _, d := range found {
		if strings.TrimSpace(d.Documento) == documento {
			return fromDTO(d), true, nil
		}
	}
	return Cliente{}, false, nil
}

// reconcile se usa cuando el alta falla con 5xx: el cliente pudo haber
// quedado guardado igual.
func (s *Service) reconcile(ctx context.Context, c Cliente) (Cliente, bool, error) {
	return s.BuscarPorDocumento(ctx, c.Documento)
}
