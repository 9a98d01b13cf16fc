package router

import (
	"net/http"
	"time"

	"pet-store-console/internal/adapters/auth/jwtauth"
	"pet-store-console/internal/adapters/capabilities/rbac"
	mem "pet-store-console/internal/adapters/storage/memory"
	"pet-store-console/internal/console"
	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/domain/categorias"
	"pet-store-console/internal/domain/citas"
	"pet-store-console/internal/domain/clientes"
	"pet-store-console/internal/domain/compras"
	"pet-store-console/internal/domain/mascotas"
	"pet-store-console/internal/domain/productos"
	"pet-store-console/internal/domain/proveedores"
	"pet-store-console/internal/domain/roles"
	"pet-store-console/internal/domain/servicios"
	"pet-store-console/internal/domain/usuarios"
	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/platform/respond"
	"pet-store-console/internal/ports/auth"
	"pet-store-console/internal/ports/cache"
	"pet-store-console/internal/ports/capabilities"
	"pet-store-console/internal/session"
	"pet-store-console/internal/upstream"

	_ "pet-store-console/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Permisos de módulo; coinciden con NombrePermiso en /auth/permisos.
const (
	PermClientes    = "Clientes"
	PermMascotas    = "Mascotas"
	PermCategorias  = "Categorias"
	PermProductos   = "Productos"
	PermProveedores = "Proveedores"
	PermCompras     = "Compras"
	PermServicios   = "Servicios"
	PermCitas       = "Citas"
	PermRoles       = "Roles"
	PermUsuarios    = "Usuarios"
)

type Options struct {
	API *upstream.Client

	Log   logger.Logger
	Cache cache.Store // nil => memoria

	CacheTTL        time.Duration
	MinOverlay      time.Duration
	NotificationTTL time.Duration

	// Verifier valida los Bearer tokens; Issuer emite los del login.
	// jwtauth.Service implementa ambos.
	Verifier auth.AuthVerifier
	Issuer   auth.Issuer
	TokenTTL time.Duration
	Admin    jwtauth.Admin

	// Capabilities nil => rbac sobre el API. DevMode habilita los headers
	// X-Debug-User-ID / X-Debug-Role-ID.
	Capabilities capabilities.CapabilitiesResolver
	DevMode      bool

	AllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Cache == nil {
		opts.Cache = mem.NewCache()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(opts.Log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Debug-User-ID", "X-Debug-Role-ID"},
		AllowCredentials: true,
	}).Handler)
	r.Use(middleware.AuthContext(opts.Verifier, opts.DevMode))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Piezas compartidas por todas las pantallas
	overlay := console.NewOverlay(opts.MinOverlay)
	deps := crud.Deps{
		Cache:    opts.Cache,
		CacheTTL: opts.CacheTTL,
		Overlay:  overlay,
		Notifier: console.NewNotifier(overlay, opts.NotificationTTL),
		Log:      opts.Log,
	}

	resolver := opts.Capabilities
	var rbacResolver *rbac.Resolver
	if resolver == nil {
		rbacResolver = rbac.NewResolver(rbac.NewClient(opts.API), rbac.Options{Cache: opts.Cache})
		resolver = rbacResolver
	}

	// Services por módulo
	categoriasSvc := categorias.NewService(opts.API, deps)
	productosSvc := productos.NewService(opts.API, deps)
	clientesSvc := clientes.NewService(opts.API, deps)
	mascotasSvc := mascotas.NewService(opts.API, deps)
	proveedoresSvc := proveedores.NewService(opts.API, deps)
	comprasSvc := compras.NewService(opts.API, deps)
	serviciosSvc := servicios.NewService(opts.API, deps)
	tiposSvc := servicios.NewTiposService(opts.API, serviciosSvc, deps)
	citasSvc := citas.NewService(opts.API, deps)
	rolesSvc := roles.NewService(opts.API, deps)
	usuariosSvc := usuarios.NewService(opts.API, deps)
	if rbacResolver != nil {
		rolesSvc.OnPermisosChange(rbacResolver.Invalidate)
	}

	sessionSvc := session.NewService(session.Deps{
		Admin:    opts.Admin,
		Issuer:   opts.Issuer,
		TTL:      opts.TokenTTL,
		Notifier: deps.Notifier,
		Overlay:  overlay,
		Log:      opts.Log,
	})

	perm := func(p string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(resolver, opts.Log, p)
	}

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		session.RegisterPublicRoutes(api, sessionSvc)

		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireSession)
			session.RegisterRoutes(g, sessionSvc)

			g.With(perm(PermCategorias)).Group(func(m chi.Router) { categorias.RegisterRoutes(m, categoriasSvc) })
			g.With(perm(PermProductos)).Group(func(m chi.Router) { productos.RegisterRoutes(m, productosSvc) })
			g.With(perm(PermClientes)).Group(func(m chi.Router) { clientes.RegisterRoutes(m, clientesSvc) })
			g.With(perm(PermMascotas)).Group(func(m chi.Router) { mascotas.RegisterRoutes(m, mascotasSvc) })
			g.With(perm(PermProveedores)).Group(func(m chi.Router) { proveedores.RegisterRoutes(m, proveedoresSvc) })
			g.With(perm(PermCompras)).Group(func(m chi.Router) { compras.RegisterRoutes(m, comprasSvc) })
			g.With(perm(PermServicios)).Group(func(m chi.Router) { servicios.RegisterRoutes(m, serviciosSvc, tiposSvc) })
			g.With(perm(PermCitas)).Group(func(m chi.Router) { citas.RegisterRoutes(m, citasSvc) })
			g.With(perm(PermRoles)).Group(func(m chi.Router) { roles.RegisterRoutes(m, rolesSvc) })
			g.With(perm(PermUsuarios)).Group(func(m chi.Router) { usuarios.RegisterRoutes(m, usuariosSvc) })
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Message(w, http.StatusNotFound, "not found")
	})

	return r
}
