package upstream

import (
	"pet-store-console/internal/platform/httpclient"
)

// Rutas base del API REST.
const (
	PathCategorias    = "/products/categorias"
	PathProductos     = "/products/productos"
	PathClientes      = "/customers/clientes"
	PathMascotas      = "/customers/mascotas"
	PathCompras       = "/purchases/compras"
	PathProveedores   = "/purchases/proveedores"
	PathDetalles      = "/purchases/detalles"
	PathCitas         = "/appointments/citas"
	PathServicios     = "/services/servicios"
	PathTiposServicio = "/services/tipos-servicio"
	PathRoles         = "/auth/roles"
	PathPermisos      = "/auth/permisos"
	PathRolPermiso    = "/auth/rol-permiso"
	PathUsuarios      = "/auth/usuarios"
)

// Client agrupa un Resource por recurso, todos sobre el mismo httpclient.
type Client struct {
	HTTP *httpclient.Client

	Categorias    *Resource[Categoria]
	Productos     *Resource[Producto]
	Clientes      *Resource[Cliente]
	Mascotas      *Resource[Mascota]
	Proveedores   *Resource[Proveedor]
	Compras       *Resource[Compra]
	Detalles      *Resource[DetalleCompra]
	Citas         *Resource[Cita]
	Servicios     *Resource[Servicio]
	TiposServicio *Resource[TipoServicio]
	Roles         *Resource[Rol]
	Permisos      *Resource[Permiso]
	RolPermisos   *Resource[RolPermiso]
	Usuarios      *Resource[Usuario]
}

func New(c *httpclient.Client) *Client {
	return &Client{
		HTTP: c,

		Categorias:    NewResource[Categoria](c, PathCategorias, FormaNumero),
		Productos:     NewResource[Producto](c, PathProductos, FormaNumero),
		Clientes:      NewResource[Cliente](c, PathClientes, FormaEtiqueta),
		Mascotas:      NewResource[Mascota](c, PathMascotas, FormaEtiqueta),
		Proveedores:   NewResource[Proveedor](c, PathProveedores, FormaEtiqueta),
		Compras:       NewResource[Compra](c, PathCompras, FormaEtiqueta),
		Detalles:      NewResource[DetalleCompra](c, PathDetalles, FormaNumero),
		Citas:         NewResource[Cita](c, PathCitas, FormaEtiqueta),
		Servicios:     NewResource[Servicio](c, PathServicios, FormaBool),
		TiposServicio: NewResource[TipoServicio](c, PathTiposServicio, FormaBool),
		Roles:         NewResource[Rol](c, PathRoles, FormaBool),
		Permisos:      NewResource[Permiso](c, PathPermisos, FormaBool),
		RolPermisos:   NewResource[RolPermiso](c, PathRolPermiso, FormaNumero),
		Usuarios:      NewResource[Usuario](c, PathUsuarios, FormaBool),
	}
}
