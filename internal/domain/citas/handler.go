package citas

import (
	"net/http"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

type cambioEstado struct {
	Estado string `json:"estado"`
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/citas", func(cr chi.Router) {
		cr.Get("/estados", func(w http.ResponseWriter, _ *http.Request) {
			respond.JSON(w, http.StatusOK, Estados())
		})
		cr.Get("/cliente/{clienteID}", deClienteHandler(svc))
		crud.Mount(cr, svc.Page, func() Cita {
			return Cita{Estado: EstadoProgramada, Servicios: []Linea{}}
		}, func(ir chi.Router) {
			ir.Post("/cancelar", cancelHandler(svc))
			ir.Put("/estado", estadoHandler(svc))
		})
	})
}

// @Summary  Cancelar cita
// @Tags     citas
// @Produce  json
// @Param    id      path  int  true  "Id de la cita"
// @Param    confirm query bool false "Confirmación del diálogo"
// @Success  200 {object} citas.Cita
// @Failure  409 {object} respond.ErrorBody
// @Failure  428 {object} respond.ErrorBody
// @Router   /citas/{id}/cancelar [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		c, err := svc.Cancel(r.Context(), middleware.Session(r.Context()), id, crud.Confirmed(r))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	}
}

// @Summary  Cambiar estado de la cita
// @Tags     citas
// @Accept   json
// @Produce  json
// @Param    id   path int          true "Id de la cita"
// @Param    body body cambioEstado true "Nuevo estado"
// @Success  200 {object} citas.Cita
// @Failure  422 {object} respond.ErrorBody
// @Router   /citas/{id}/estado [put]
func estadoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		var in cambioEstado
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, err)
			return
		}
		c, err := svc.ChangeStatus(r.Context(), middleware.Session(r.Context()), id, in.Estado)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	}
}

func deClienteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "clienteID"))
		if err != nil {
			respond.Error(w, console.Invalid("clienteId", "id inválido"))
			return
		}
		items, err := svc.DeCliente(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}
