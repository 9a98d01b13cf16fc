package usuarios

import (
	"context"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"
)

const (
	MsgContrasenaRequerida = "La contraseña es obligatoria"
	MsgCorreoDuplicado     = "Ya existe un usuario con este correo"
	MsgRolInvalido         = "El rol seleccionado no existe"
)

type Service struct {
	*crud.Page[Usuario, upstream.Usuario]
	api *upstream.Client
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Usuario, upstream.Usuario]{
		Entidad:   "Usuario",
		Articulo:  "el usuario",
		ListKey:   "usuariosData",
		ToView:    fromDTO,
		ToDTO:     toDTO,
		ID:        func(u Usuario) int { return u.ID },
		SetID:     func(u *Usuario, id int) { u.ID = id },
		Label:     func(u Usuario) string { return u.Correo },
		Status:    func(u Usuario) (bool, bool) { return u.Status() },
		SetStatus: func(u *Usuario, v bool) { u.SetActive(v) },
		Normalize: normalize,
		Rules:     s.rules,
		Reconcile: s.reconcile,
		AfterSave: func(_ context.Context, saved, _ Usuario, _ console.Mode) (Usuario, error) {
			saved.Contrasena = ""
			return saved, nil
		},
	}, api.Usuarios, deps)
	return s
}

func (s *Service) rules(ctx context.Context, u Usuario, others []Usuario, mode console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	if mode == console.ModeCreate && u.Contrasena == "" {
		errs.Add("contrasena", MsgContrasenaRequerida)
	}
	for _, o := range others {
		if strings.EqualFold(strings.TrimSpace(o.Correo), u.Correo) {
			errs.Add("correo", MsgCorreoDuplicado)
			break
		}
	}
	if u.RolID > 0 {
		if _, err := s.api.Roles.Get(ctx, u.RolID); httpclient.StatusOf(err) == 404 {
			errs.Add("rolId", MsgRolInvalido)
		}
	}
	return errs
}

func (s *Service) reconcile(ctx context.Context, u Usuario) (Usuario, bool, error) {
	all, err := s.api.Usuarios.List(ctx)
	if err != nil {
		return Usuario{}, false, err
	}
	for _, d := range all {
		if strings.EqualFold(strings.TrimSpace(d.Correo), u.Correo) {
			return fromDTO(d), true, nil
		}
	}
	return Usuario{}, false, nil
}
