package clientes

import (
	"strings"

	"pet-store-console/internal/console/crud"
	"pet-store-console/internal/upstream"
)

type Cliente struct {
	ID        int    `json:"id"`
	Documento string `json:"documento" validate:"required,documento"`
	Nombre    string `json:"nombre" validate:"required,min=2,max=50,nombre"`
	Apellido  string `json:"apellido" validate:"required,min=2,max=50,nombre"`
	Correo    string `json:"correo" validate:"required,email,max=100"`
	Telefono  string `json:"telefono" validate:"required,telefono"`
	Direccion string `json:"direccion" validate:"required,min=5,max=100"`
	crud.Estado
}

func (c Cliente) NombreCompleto() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}

// Registros del "Consumidor Final" que usa el punto de venta.
var (
	documentosConsumidorFinal = map[string]bool{"0000000": true, "222222222222": true}
	correoConsumidorFinal     = "consumidor@final.com"
)

// EsConsumidorFinal detecta el cliente genérico de ventas sin cliente.
func EsConsumidorFinal(c Cliente) bool {
	if (c.ID == 0 || c.ID == 1) && strings.Contains(strings.ToLower(c.NombreCompleto()), "consumidor final") {
		return true
	}
	if documentosConsumidorFinal[strings.TrimSpace(c.Documento)] {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.Correo), correoConsumidorFinal)
}

func fromDTO(d upstream.Cliente) Cliente {
	return Cliente{
		ID:        d.IdCliente,
		Documento: d.Documento,
		Nombre:    d.Nombre,
		Apellido:  d.Apellido,
		Correo:    d.Correo,
		Telefono:  d.Telefono,
		Direccion: d.Direccion,
		Estado:    crud.EstadoDe(d.Estado),
	}
}

func toDTO(c Cliente, forma upstream.Forma) upstream.Cliente {
	return upstream.Cliente{
		IdCliente: c.ID,
		Documento: c.Documento,
		Nombre:    c.Nombre,
		Apellido:  c.Apellido,
		Correo:    c.Correo,
		Telefono:  c.Telefono,
		Direccion: c.Direccion,
		Estado:    c.Wire(forma),
	}
}

func normalize(c Cliente) Cliente {
	c.Documento = strings.TrimSpace(c.Documento)
	c.Nombre = strings.TrimSpace(c.Nombre)
	c.Apellido = strings.TrimSpace(c.Apellido)
	c.Correo = strings.ToLower(strings.TrimSpace(c.Correo))
	c.Telefono = strings.TrimSpace(c.Telefono)
	c.Direccion = strings.TrimSpace(c.Direccion)
	return c
}
