package upstream

import "github.com/shopspring/decimal"

// DTOs con los nombres PascalCase que usa el API.

type Categoria struct {
	IdCategoria     int    `json:"IdCategoria"`
	NombreCategoria string `json:"NombreCategoria"`
	Descripcion     string `json:"Descripcion"`
	Estado          Estado `json:"Estado"`
}

type Cliente struct {
	IdCliente int    `json:"IdCliente"`
	Documento string `json:"Documento"`
	Nombre    string `json:"Nombre"`
	Apellido  string `json:"Apellido"`
	Correo    string `json:"Correo"`
	Telefono  string `json:"Telefono"`
	Direccion string `json:"Direccion"`
	Estado    Estado `json:"Estado"`
}

type Mascota struct {
	IdMascota       int    `json:"IdMascota"`
	IdCliente       int    `json:"IdCliente"`
	Nombre          string `json:"Nombre"`
	IdEspecie       Flex   `json:"IdEspecie"`
	Especie         string `json:"Especie,omitempty"`
	Raza            string `json:"Raza"`
	Tamano          string `json:"Tamano"`
	FechaNacimiento string `json:"FechaNacimiento"`
	Foto            string `json:"Foto"`
	Estado          Estado `json:"Estado"`
}

type Producto struct {
	IdProducto       int             `json:"IdProducto"`
	IdCategoria      int             `json:"IdCategoria"`
	NombreProducto   string          `json:"NombreProducto"`
	Descripcion      string          `json:"Descripcion"`
	Precio           decimal.Decimal `json:"Precio"`
	Stock            int             `json:"Stock"`
	TieneIva         Flag            `json:"TieneIva"`
	PorcentajeIva    decimal.Decimal `json:"PorcentajeIva"`
	CodigoBarras     string          `json:"CodigoBarras"`
	TieneVencimiento Flag            `json:"TieneVencimiento"`
	FechaVencimiento string          `json:"FechaVencimiento"`
	Fotos            StringList      `json:"Fotos"`
	Estado           Estado          `json:"Estado"`
}

type Proveedor struct {
	IdProveedor     int    `json:"IdProveedor"`
	Documento       string `json:"Documento"`
	NombreEmpresa   string `json:"NombreEmpresa"`
	PersonaContacto string `json:"PersonaContacto"`
	Telefono        string `json:"Telefono"`
	Correo          string `json:"Correo"`
	Direccion       string `json:"Direccion"`
	Estado          Estado `json:"Estado"`
}

type Compra struct {
	IdCompra    int             `json:"IdCompra"`
	IdProveedor int             `json:"IdProveedor"`
	FechaCompra string          `json:"FechaCompra"`
	Subtotal    decimal.Decimal `json:"Subtotal"`
	TotalIva    decimal.Decimal `json:"TotalIva"`
	Total       decimal.Decimal `json:"Total"`
	Estado      Estado          `json:"Estado"`
	Detalles    []DetalleCompra `json:"Detalles,omitempty"`
}

type DetalleCompra struct {
	IdDetalleCompra int             `json:"IdDetalleCompra"`
	IdCompra        int             `json:"IdCompra"`
	IdProducto      int             `json:"IdProducto"`
	Cantidad        int             `json:"Cantidad"`
	PrecioUnitario  decimal.Decimal `json:"PrecioUnitario"`
	PorcentajeIva   decimal.Decimal `json:"PorcentajeIva"`
	Subtotal        decimal.Decimal `json:"Subtotal"`
	Iva             decimal.Decimal `json:"Iva"`
}

type TipoServicio struct {
	IdTipoServicio int    `json:"IdTipoServicio"`
	Nombre         string `json:"Nombre"`
	Descripcion    string `json:"Descripcion"`
	Estado         Estado `json:"Estado"`
}

type Servicio struct {
	IdServicio     int             `json:"IdServicio"`
	IdTipoServicio int             `json:"IdTipoServicio"`
	Nombre         string          `json:"Nombre"`
	Descripcion    string          `json:"Descripcion"`
	Precio         decimal.Decimal `json:"Precio"`
	Duracion       int             `json:"Duracion"`
	QueIncluye     string          `json:"QueIncluye"`
	Foto           string          `json:"Foto"`
	Estado         Estado          `json:"Estado"`
}

type Cita struct {
	IdCita        int             `json:"IdCita"`
	IdCliente     int             `json:"IdCliente"`
	IdMascota     int             `json:"IdMascota"`
	Fecha         string          `json:"Fecha"`
	Estado        string          `json:"Estado"`
	Notas         string          `json:"Notas"`
	Servicios     []CitaServicio  `json:"Servicios"`
	PrecioTotal   decimal.Decimal `json:"PrecioTotal"`
	DuracionTotal int             `json:"DuracionTotal"`
}

type CitaServicio struct {
	IdServicio int             `json:"IdServicio"`
	Precio     decimal.Decimal `json:"Precio"`
	Duracion   int             `json:"Duracion"`
}

type Rol struct {
	IdRol       int    `json:"IdRol"`
	NombreRol   string `json:"NombreRol"`
	Descripcion string `json:"Descripcion"`
	Estado      Estado `json:"Estado"`
}

type Permiso struct {
	IdPermiso     int    `json:"IdPermiso"`
	NombrePermiso string `json:"NombrePermiso"`
	Descripcion   string `json:"Descripcion"`
}

type RolPermiso struct {
	IdRolPermiso int `json:"IdRolPermiso"`
	IdRol        int `json:"IdRol"`
	IdPermiso    int `json:"IdPermiso"`
}

type Usuario struct {
	IdUsuario  int    `json:"IdUsuario"`
	Nombre     string `json:"Nombre"`
	Apellido   string `json:"Apellido"`
	Correo     string `json:"Correo"`
	IdRol      int    `json:"IdRol"`
	Contrasena string `json:"Contrasena,omitempty"`
	Estado     Estado `json:"Estado"`
}
