package proveedores

import (
	"net/http"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/proveedores", func(pr chi.Router) {
		pr.Get("/activos", activosHandler(svc))
		crud.Mount(pr, svc.Page, func() Proveedor {
			return Proveedor{Estado: crud.Activo(true)}
		})
	})
}

// @Summary  Proveedores activos
// @Tags     proveedores
// @Produce  json
// @Success  200 {array} proveedores.Proveedor
// @Router   /proveedores/activos [get]
func activosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Activos(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}
