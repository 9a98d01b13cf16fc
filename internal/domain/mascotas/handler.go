package mascotas

import (
	"net/http"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/mascotas", func(mr chi.Router) {
		mr.Get("/especies", especiesHandler)
		mr.Get("/cliente/{clienteID}", delClienteHandler(svc))
		crud.Mount(mr, svc.Page, func() Mascota {
			return Mascota{
				EspecieID:     EspecieCanino,
				EspecieNombre: EspecieNombre(EspecieCanino),
				Tamano:        "Mediano",
				Estado:        crud.Activo(true),
			}
		})
	})
}

// @Summary  Especies disponibles
// @Tags     mascotas
// @Produce  json
// @Success  200 {array} mascotas.Especie
// @Router   /mascotas/especies [get]
func especiesHandler(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, Especies())
}

// @Summary  Mascotas de un cliente
// @Tags     mascotas
// @Produce  json
// @Param    clienteID path int true "IdCliente"
// @Success  200 {object} crud.Listing[mascotas.Mascota]
// @Router   /mascotas/cliente/{clienteID} [get]
func delClienteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "clienteID"))
		if err != nil {
			respond.Error(w, console.Invalid("clienteId", "id inválido"))
			return
		}
		items, err := svc.DelCliente(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, crud.Listing[Mascota]{Items: items})
	}
}
