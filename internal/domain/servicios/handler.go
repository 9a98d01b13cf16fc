package servicios

import (
	"net/http"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service, tipos *TiposService) {
	r.Route("/servicios", func(sr chi.Router) {
		sr.Get("/tipo/{tipoID}", porTipoHandler(svc))
		crud.Mount(sr, svc.Page, func() Servicio {
			return Servicio{Precio: decimal.Zero, Duracion: 30, Estado: crud.Activo(true)}
		})
	})
	r.Route("/tipos-servicio", func(tr chi.Router) {
		crud.Mount(tr, tipos.Page, func() TipoServicio {
			return TipoServicio{Estado: crud.Activo(true)}
		})
	})
}

// @Summary  Servicios por tipo
// @Tags     servicios
// @Produce  json
// @Param    tipoID path int true "Id del tipo de servicio"
// @Success  200 {array} servicios.Servicio
// @Router   /servicios/tipo/{tipoID} [get]
func porTipoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "tipoID"))
		if err != nil {
			respond.Error(w, console.Invalid("tipoServicioId", "id inválido"))
			return
		}
		items, err := svc.PorTipo(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}
