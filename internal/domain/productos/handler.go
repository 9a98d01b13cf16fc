package productos

import (
	"net/http"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/productos", func(pr chi.Router) {
		pr.Get("/codigo/{codigo}", porCodigoHandler(svc))
		pr.Get("/categoria/{categoriaID}", porCategoriaHandler(svc))
		crud.Mount(pr, svc.Page, func() Producto {
			pct := decimal.NewFromInt(19)
			return Producto{
				Precio:        decimal.Zero,
				TieneIva:      true,
				PorcentajeIva: &pct,
				Fotos:         []string{},
				Estado:        crud.Activo(true),
			}
		})
	})
}

// @Summary  Producto por código de barras
// @Tags     productos
// @Produce  json
// @Param    codigo path string true "Código de barras"
// @Success  200 {object} productos.Producto
// @Failure  404 {object} respond.ErrorBody
// @Router   /productos/codigo/{codigo} [get]
func porCodigoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok, err := svc.PorCodigo(r.Context(), chi.URLParam(r, "codigo"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		if !ok {
			respond.Error(w, console.NewError(console.KindNotFound, "No existe un producto con ese código"))
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

func porCategoriaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "categoriaID"))
		if err != nil {
			respond.Error(w, console.Invalid("categoriaId", "id inválido"))
			return
		}
		items, err := svc.PorCategoria(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, crud.Listing[Producto]{Items: items})
	}
}
