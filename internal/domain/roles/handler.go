package roles

import (
	"net/http"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

type asignacion struct {
	Permisos []int `json:"permisos"`
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/permisos", permisosHandler(svc))
	r.Route("/roles", func(rr chi.Router) {
		crud.Mount(rr, svc.Page, func() Rol {
			return Rol{Permisos: []int{}, Estado: crud.Activo(true)}
		}, func(ir chi.Router) {
			ir.Get("/permisos", permisosDeRolHandler(svc))
			ir.Put("/permisos", asignarHandler(svc))
		})
	})
}

// @Summary  Catálogo de permisos
// @Tags     roles
// @Produce  json
// @Success  200 {array} roles.Permiso
// @Router   /permisos [get]
func permisosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Permisos(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}

func permisosDeRolHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		items, err := svc.PermisosDeRol(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}

// @Summary  Reemplazar permisos del rol
// @Tags     roles
// @Accept   json
// @Produce  json
// @Param    id   path int        true "Id del rol"
// @Param    body body asignacion true "Ids de permisos"
// @Success  200 {array} roles.Permiso
// @Failure  422 {object} respond.ErrorBody
// @Router   /roles/{id}/permisos [put]
func asignarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		var in asignacion
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, err)
			return
		}
		items, err := svc.AsignarPermisos(r.Context(), middleware.Session(r.Context()), id, in.Permisos)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}
