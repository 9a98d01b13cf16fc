package usuarios

import (
	"pet-store-console/internal/console/crud"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/usuarios", func(ur chi.Router) {
		crud.Mount(ur, svc.Page, func() Usuario {
			return Usuario{Estado: crud.Activo(true)}
		})
	})
}
