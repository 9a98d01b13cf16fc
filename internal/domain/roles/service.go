package roles

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
	"pet-store-console/internal/validation"

	"github.com/pkg/errors"
)

const (
	MsgDuplicado        = "Ya existe un rol con este nombre"
	MsgConUsuarios      = "No se puede eliminar el rol porque tiene usuarios asociados"
	MsgPermisoInvalido  = "Uno de los permisos seleccionados no existe"
	MsgPermisosGuardado = "Permisos actualizados exitosamente"
)

type Service struct {
	*crud.Page[Rol, upstream.Rol]
	api      *upstream.Client
	onChange func(ctx context.Context, rolID int)
}

func NewService(api *upstream.Client, deps crud.Deps) *Service {
	s := &Service{api: api}
	s.Page = crud.New(crud.Config[Rol, upstream.Rol]{
		Entidad:    "Rol",
		Articulo:   "el rol",
		Plural:     "roles",
		ListKey:    "rolesData",
		ToView:     fromDTO,
		ToDTO:      toDTO,
		ID:         func(r Rol) int { return r.ID },
		SetID:      func(r *Rol, id int) { r.ID = id },
		Label:      func(r Rol) string { return r.Nombre },
		Status:     func(r Rol) (bool, bool) { return r.Status() },
		SetStatus:  func(r *Rol, v bool) { r.SetActive(v) },
		Normalize:  normalize,
		Rules:      s.rules,
		Dependents: s.dependents,
		AfterSave:  s.afterSave,
	}, api.Roles, deps)
	return s
}

// OnPermisosChange registra un aviso para cuando cambian los permisos de un rol.
func (s *Service) OnPermisosChange(fn func(ctx context.Context, rolID int)) {
	s.onChange = fn
}

func (s *Service) changed(ctx context.Context, rolID int) {
	if s.onChange != nil {
		s.onChange(ctx, rolID)
	}
}

func (s *Service) rules(ctx context.Context, r Rol, others []Rol, _ console.Mode) *validation.Errors {
	errs := &validation.Errors{}
	for _, o := range others {
		if strings.EqualFold(strings.TrimSpace(o.Nombre), r.Nombre) {
			errs.Add("nombre", MsgDuplicado)
			break
		}
	}
	if len(r.Permisos) > 0 {
		if err := s.checkPermisos(ctx, r.Permisos); err != nil {
			errs.Add("permisos", MsgPermisoInvalido)
		}
	}
	return errs
}

func (s *Service) dependents(ctx context.Context, r Rol) (string, error) {
	usuarios, err := s.api.Usuarios.Search(ctx, url.Values{"IdRol": {strconv.Itoa(r.ID)}})
	if err != nil {
		return "", err
	}
	for _, u := range usuarios {
		if u.IdRol == r.ID {
			return MsgConUsuarios, nil
		}
	}
	return "", nil
}

func (s *Service) afterSave(ctx context.Context, saved, input Rol, _ console.Mode) (Rol, error) {
	if input.Permisos == nil {
		return saved, nil
	}
	changed, err := s.replace(ctx, saved.ID, input.Permisos)
	if err != nil {
		return saved, err
	}
	if changed {
		s.changed(ctx, saved.ID)
	}
	saved.Permisos = dedupe(input.Permisos)
	return saved, nil
}

// Permisos lista el catálogo de permisos.
func (s *Service) Permisos(ctx context.Context) ([]Permiso, error) {
	all, err := s.api.Permisos.List(ctx)
	if err != nil {
		return nil, console.FromUpstream(err, "el permiso")
	}
	out := make([]Permiso, 0, len(all))
	for _, d := range all {
		out = append(out, permisoFromDTO(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

// PermisosDeRol devuelve los permisos asignados al rol.
func (s *Service) PermisosDeRol(ctx context.Context, rolID int) ([]Permiso, error) {
	asignados, err := s.asignaciones(ctx, rolID)
	if err != nil {
		return nil, console.FromUpstream(err, "el rol")
	}
	catalogo, err := s.Permisos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Permiso, 0, len(asignados))
	for _, p := range catalogo {
		if _, ok := asignados[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// AsignarPermisos deja al rol exactamente con los permisos indicados.
func (s *Service) AsignarPermisos(ctx context.Context, session string, rolID int, ids []int) ([]Permiso, error) {
	if _, err := s.Find(ctx, rolID); err != nil {
		return nil, err
	}
	if err := s.checkPermisos(ctx, ids); err != nil {
		return nil, err
	}

	hide := s.Busy(session)
	changed, err := s.replace(ctx, rolID, ids)
	hide()
	if err != nil {
		ce := console.FromUpstream(err, "el rol")
		s.Notifier().Error(session, "Error al guardar los permisos: "+ce.Message)
		return nil, ce
	}
	if changed {
		s.changed(ctx, rolID)
		s.Notifier().Success(session, MsgPermisosGuardado)
	} else {
		s.Notifier().Info(session, "Los permisos no cambiaron")
	}
	return s.PermisosDeRol(ctx, rolID)
}

// replace borra las asignaciones sobrantes y crea las faltantes.
func (s *Service) replace(ctx context.Context, rolID int, ids []int) (bool, error) {
	actuales, err := s.asignaciones(ctx, rolID)
	if err != nil {
		return false, err
	}
	want := map[int]bool{}
	for _, id := range ids {
		want[id] = true
	}

	changed := false
	for permisoID, rp := range actuales {
		if want[permisoID] {
			continue
		}
		if err := s.api.RolPermisos.Delete(ctx, rp.IdRolPermiso); err != nil {
			return changed, errors.Wrapf(err, "unassign permiso %d rol %d", permisoID, rolID)
		}
		changed = true
	}
	for _, permisoID := range dedupe(ids) {
		if _, ok := actuales[permisoID]; ok {
			continue
		}
		if _, err := s.api.RolPermisos.Create(ctx, upstream.RolPermiso{IdRol: rolID, IdPermiso: permisoID}); err != nil {
			return changed, errors.Wrapf(err, "assign permiso %d rol %d", permisoID, rolID)
		}
		changed = true
	}
	return changed, nil
}

func (s *Service) asignaciones(ctx context.Context, rolID int) (map[int]upstream.RolPermiso, error) {
	rows, err := s.api.RolPermisos.Search(ctx, url.Values{"IdRol": {strconv.Itoa(rolID)}})
	if err != nil {
		return nil, err
	}
	out := map[int]upstream.RolPermiso{}
	for _, rp := range rows {
		if rp.IdRol == rolID {
			out[rp.IdPermiso] = rp
		}
	}
	return out, nil
}

func (s *Service) checkPermisos(ctx context.Context, ids []int) error {
	catalogo, err := s.Permisos(ctx)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(catalogo))
	for _, p := range catalogo {
		known[p.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return console.Invalid("permisos", MsgPermisoInvalido)
		}
	}
	return nil
}

func dedupe(ids []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
