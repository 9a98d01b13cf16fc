package crud

import (
	"net/http"
	"strconv"

	"pet-store-console/internal/console"
	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// Mount registra las rutas estándar de una pantalla:
//
//	GET    /             lista
//	GET    /new          modal de alta
//	GET    /{id}         modal de lectura
//	GET    /{id}/edit    modal de edición
//	POST   /             crear
//	PUT    /{id}         actualizar
//	PATCH  /{id}/status  activar/desactivar
//	DELETE /{id}         eliminar (?confirm=true)
//
// blank devuelve los valores iniciales del formulario de alta; item agrega
// rutas propias del dominio bajo /{id}.
func Mount[V any, D any](r chi.Router, p *Page[V, D], blank func() V, item ...func(chi.Router)) {
	r.Get("/", listHandler(p))
	r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, p.Blank(blank()))
	})
	r.Post("/", saveHandler(p, false))
	r.Route("/{id}", func(ir chi.Router) {
		ir.Get("/", viewHandler(p))
		ir.Get("/edit", editHandler(p))
		ir.Put("/", saveHandler(p, true))
		ir.Patch("/status", toggleHandler(p))
		ir.Delete("/", deleteHandler(p))
		for _, fn := range item {
			fn(ir)
		}
	})
}

func listHandler[V any, D any](p *Page[V, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := p.Fetch(r.Context(), middleware.Session(r.Context()))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func viewHandler[V any, D any](p *Page[V, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r)
		if !ok {
			return
		}
		st, err := p.View(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, st)
	}
}

func editHandler[V any, D any](p *Page[V, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r)
		if !ok {
			return
		}
		st, err := p.Edit(r.Context(), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, st)
	}
}

func saveHandler[V any, D any](p *Page[V, D], update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := 0
		if update {
			var ok bool
			if id, ok = PathID(w, r); !ok {
				return
			}
		}

		var in V
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, err)
			return
		}

		res, err := p.Save(r.Context(), middleware.Session(r.Context()), id, in)
		if err != nil {
			respond.Error(w, err)
			return
		}

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		respond.JSON(w, status, res)
	}
}

func toggleHandler[V any, D any](p *Page[V, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r)
		if !ok {
			return
		}
		v, err := p.ToggleStatus(r.Context(), middleware.Session(r.Context()), id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, v)
	}
}

func deleteHandler[V any, D any](p *Page[V, D]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r)
		if !ok {
			return
		}
		err := p.Delete(r.Context(), middleware.Session(r.Context()), id, Confirmed(r))
		if err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PathID lee {id}; si no es un entero responde 400.
func PathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		respond.Error(w, console.Invalid("id", "id inválido"))
		return 0, false
	}
	return id, true
}

// Confirmed indica si el usuario ya aceptó el diálogo (?confirm=true).
func Confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
