package categorias

import (
	"pet-store-console/internal/console/crud"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /categorias.
//
// @Summary  Categorías de productos
// @Tags     categorias
// @Produce  json
// @Success  200 {object} crud.Listing[categorias.Categoria]
// @Failure  502 {object} respond.ErrorBody
// @Router   /categorias [get]
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/categorias", func(cr chi.Router) {
		crud.Mount(cr, svc.Page, func() Categoria {
			return Categoria{Estado: crud.Activo(true)}
		})
	})
}
