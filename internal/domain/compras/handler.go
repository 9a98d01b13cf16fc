package compras

import (
	"net/http"
	"time"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/compras", func(cr chi.Router) {
		crud.Mount(cr, svc.Page, func() Compra {
			return Compra{
				Fecha:    time.Now().Format(time.DateOnly),
				Detalles: []Detalle{},
				Estado:   crud.Activo(true),
			}
		}, func(ir chi.Router) {
			ir.Get("/detalles", detallesHandler(svc))
			ir.Patch("/anular", anularHandler(svc))
		})
	})
}

// @Summary  Líneas de una compra
// @Tags     compras
// @Produce  json
// @Param    id path int true "Id de la compra"
// @Success  200 {array} compras.Detalle
// @Router   /compras/{id}/detalles [get]
func detallesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		items, err := svc.Detalles(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}

// @Summary  Anular compra
// @Tags     compras
// @Produce  json
// @Param    id      path  int  true  "Id de la compra"
// @Param    confirm query bool false "Confirmación del diálogo"
// @Success  200 {object} compras.Compra
// @Failure  428 {object} respond.ErrorBody
// @Router   /compras/{id}/anular [patch]
func anularHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		c, err := svc.Anular(r.Context(), middleware.Session(r.Context()), id, crud.Confirmed(r))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	}
}
