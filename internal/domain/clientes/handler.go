package clientes

import (
	"net/http"
	"strings"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/clientes", func(cr chi.Router) {
		cr.Get("/buscar", buscarHandler(svc))
		crud.Mount(cr, svc.Page, func() Cliente {
			return Cliente{Estado: crud.Activo(true)}
		}, func(ir chi.Router) {
			ir.Get("/mascotas", mascotasHandler(svc))
		})
	})
}

type mascotaResumen struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Raza   string `json:"raza"`
}

// buscarHandler busca un cliente por documento.
//
// @Summary  Buscar cliente por documento
// @Tags     clientes
// @Produce  json
// @Param    documento query string true "Documento"
// @Success  200 {object} clientes.Cliente
// @Failure  404 {object} respond.ErrorBody
// @Router   /clientes/buscar [get]
func buscarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := strings.TrimSpace(r.URL.Query().Get("documento"))
		if doc == "" {
			respond.Error(w, console.Invalid("documento", "Este campo es obligatorio"))
			return
		}
		c, ok, err := svc.BuscarPorDocumento(r.Context(), doc)
		if err != nil {
			respond.Error(w, err)
			return
		}
		if !ok {
			respond.Error(w, console.NewError(console.KindNotFound, "No existe un cliente con ese documento"))
			return
		}
		respond.JSON(w, http.StatusOK, c)
	}
}

// mascotasHandler lista las mascotas de un cliente.
//
// @Summary  Mascotas del cliente
// @Tags     clientes
// @Produce  json
// @Param    id path int true "IdCliente"
// @Success  200 {array} clientes.mascotaResumen
// @Router   /clientes/{id}/mascotas [get]
func mascotasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := crud.PathID(w, r)
		if !ok {
			return
		}
		items, err := svc.Mascotas(r.Context(), id)
		if err != nil {
			respond.Error(w, console.FromUpstream(err, "el cliente"))
			return
		}
		out := make([]mascotaResumen, 0, len(items))
		for _, m := range items {
			out = append(out, mascotaResumen{ID: m.IdMascota, Nombre: m.Nombre, Raza: m.Raza})
		}
		respond.JSON(w, http.StatusOK, out)
	}
}
