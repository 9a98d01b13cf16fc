package productos

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"

	"github.com/shopspring/decimal"
)

type Producto struct {
	ID               int              `json:"id"`
	CategoriaID      int              `json:"categoriaId" validate:"required,gt=0"`
	Nombre           string           `json:"nombre" validate:"required,min=3,max=100"`
	Descripcion      string           `json:"descripcion" validate:"max=500"`
	Precio           decimal.Decimal  `json:"precio"`
	Stock            int              `json:"stock" validate:"gte=0"`
	TieneIva         bool             `json:"tieneIva"`
	PorcentajeIva    *decimal.Decimal `json:"porcentajeIva,omitempty"`
	PrecioConIva     decimal.Decimal  `json:"precioConIva"`
	CodigoBarras     string           `json:"codigoBarras" validate:"omitempty,codigobarras"`
	TieneVencimiento bool             `json:"tieneVencimiento"`
	FechaVencimiento string           `json:"fechaVencimiento" validate:"omitempty,datetime=2006-01-02"`
	Fotos            []string         `json:"fotos" validate:"max=5,dive,http_url"`
	crud.Estado
}

var cien = decimal.NewFromInt(100)

// PrecioFinal es el precio con IVA (redondeado a 2 decimales).
func PrecioFinal(precio decimal.Decimal, tieneIva bool, pct *decimal.Decimal) decimal.Decimal {
	if !tieneIva || pct == nil {
		return precio.Round(2)
	}
	return precio.Add(precio.Mul(*pct).Div(cien)).Round(2)
}

func fromDTO(d upstream.Producto) Producto {
	p := Producto{
		ID:               d.IdProducto,
		CategoriaID:      d.IdCategoria,
		Nombre:           d.NombreProducto,
		Descripcion:      d.Descripcion,
		Precio:           d.Precio,
		Stock:            d.Stock,
		TieneIva:         bool(d.TieneIva),
		CodigoBarras:     d.CodigoBarras,
		TieneVencimiento: bool(d.TieneVencimiento),
		FechaVencimiento: soloFecha(d.FechaVencimiento),
		Fotos:            []string(d.Fotos),
		Estado:           crud.EstadoDe(d.Estado),
	}
	if p.TieneIva {
		pct := d.PorcentajeIva
		p.PorcentajeIva = &pct
	}
	if p.Fotos == nil {
		p.Fotos = []string{}
	}
	p.PrecioConIva = PrecioFinal(p.Precio, p.TieneIva, p.PorcentajeIva)
	return p
}

func toDTO(p Producto, forma upstream.Forma) upstream.Producto {
	d := upstream.Producto{
		IdProducto:       p.ID,
		IdCategoria:      p.CategoriaID,
		NombreProducto:   p.Nombre,
		Descripcion:      p.Descripcion,
		Precio:           p.Precio,
		Stock:            p.Stock,
		TieneIva:         upstream.Flag(p.TieneIva),
		CodigoBarras:     p.CodigoBarras,
		TieneVencimiento: upstream.Flag(p.TieneVencimiento),
		Fotos:            upstream.StringList(p.Fotos),
		Estado:           p.Wire(forma),
	}
	if p.TieneIva && p.PorcentajeIva != nil {
		d.PorcentajeIva = *p.PorcentajeIva
	}
	if p.TieneVencimiento {
		d.FechaVencimiento = p.FechaVencimiento
	}
	return d
}

func normalize(p Producto) Producto {
	p.Nombre = strings.TrimSpace(p.Nombre)
	p.Descripcion = strings.TrimSpace(p.Descripcion)
	p.CodigoBarras = strings.TrimSpace(p.CodigoBarras)
	p.FechaVencimiento = soloFecha(p.FechaVencimiento)
	if !p.TieneIva {
		p.PorcentajeIva = nil
	}
	if !p.TieneVencimiento {
		p.FechaVencimiento = ""
	}
	fotos := make([]string, 0, len(p.Fotos))
	for _, f := range p.Fotos {
		if f = strings.TrimSpace(f); f != "" {
			fotos = append(fotos, f)
		}
	}
	p.Fotos = fotos
	p.PrecioConIva = PrecioFinal(p.Precio, p.TieneIva, p.PorcentajeIva)
	return p
}

func soloFecha(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i == 10 {
		return s[:i]
	}
	return s
}
