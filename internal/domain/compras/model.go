package compras

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"

	"github.com/shopspring/decimal"
)

// Compra es el encabezado con sus líneas. Activo=false significa anulada.
type Compra struct {
	ID          int             `json:"id"`
	ProveedorID int             `json:"proveedorId" validate:"required,gt=0"`
	Fecha       string          `json:"fecha" validate:"required,datetime=2006-01-02"`
	Detalles    []Detalle       `json:"detalles" validate:"required,min=1,dive"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalIva    decimal.Decimal `json:"totalIva"`
	Total       decimal.Decimal `json:"total"`
	crud.Estado
}

type Detalle struct {
	ID             int             `json:"id"`
	ProductoID     int             `json:"productoId" validate:"required,gt=0"`
	Cantidad       int             `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	PorcentajeIva  decimal.Decimal `json:"porcentajeIva"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Iva            decimal.Decimal `json:"iva"`
}

var cien = decimal.NewFromInt(100)

// Calcular recalcula subtotal e IVA de cada línea y los totales.
func (c Compra) Calcular() Compra {
	c.Subtotal, c.TotalIva = decimal.Zero, decimal.Zero
	lineas := make([]Detalle, len(c.Detalles))
	for i, d := range c.Detalles {
		d.Subtotal = d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))).Round(2)
		d.Iva = d.Subtotal.Mul(d.PorcentajeIva).Div(cien).Round(2)
		c.Subtotal = c.Subtotal.Add(d.Subtotal)
		c.TotalIva = c.TotalIva.Add(d.Iva)
		lineas[i] = d
	}
	c.Detalles = lineas
	c.Total = c.Subtotal.Add(c.TotalIva)
	return c
}

func fromDTO(d upstream.Compra) Compra {
	c := Compra{
		ID:          d.IdCompra,
		ProveedorID: d.IdProveedor,
		Fecha:       soloFecha(d.FechaCompra),
		Subtotal:    d.Subtotal,
		TotalIva:    d.TotalIva,
		Total:       d.Total,
		Estado:      crud.EstadoDe(d.Estado),
	}
	for _, l := range d.Detalles {
		c.Detalles = append(c.Detalles, detalleFromDTO(l))
	}
	if c.Detalles == nil {
		c.Detalles = []Detalle{}
	}
	return c
}

// toDTO arma sólo el encabezado; las líneas se envían aparte.
func toDTO(c Compra, forma upstream.Forma) upstream.Compra {
	return upstream.Compra{
		IdCompra:    c.ID,
		IdProveedor: c.ProveedorID,
		FechaCompra: c.Fecha,
		Subtotal:    c.Subtotal,
		TotalIva:    c.TotalIva,
		Total:       c.Total,
		Estado:      c.Wire(forma),
	}
}

func detalleFromDTO(d upstream.DetalleCompra) Detalle {
	return Detalle{
		ID:             d.IdDetalleCompra,
		ProductoID:     d.IdProducto,
		Cantidad:       d.Cantidad,
		PrecioUnitario: d.PrecioUnitario,
		PorcentajeIva:  d.PorcentajeIva,
		Subtotal:       d.Subtotal,
		Iva:            d.Iva,
	}
}

func detalleToDTO(compraID int, d Detalle) upstream.DetalleCompra {
	return upstream.DetalleCompra{
		IdCompra:       compraID,
		IdProducto:     d.ProductoID,
		Cantidad:       d.Cantidad,
		PrecioUnitario: d.PrecioUnitario,
		PorcentajeIva:  d.PorcentajeIva,
		Subtotal:       d.Subtotal,
		Iva:            d.Iva,
	}
}

func normalize(c Compra) Compra {
	c.Fecha = soloFecha(c.Fecha)
	return c.Calcular()
}

func soloFecha(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i == 10 {
		return s[:i]
	}
	return s
}
