package crud

import "pet-store-console/internal/upstream"

// Estado se embebe en los view models que tienen activo/inactivo.
// Conocido es false cuando el API devolvió el registro sin estado.
type Estado struct {
	Activo   bool `json:"activo"`
	Conocido bool `json:"-"`
}

func EstadoDe(e upstream.Estado) Estado {
	return Estado{Activo: e.Activo, Conocido: e.Presente}
}

func Activo(v bool) Estado { return Estado{Activo: v, Conocido: true} }

func (e Estado) Status() (activo bool, conocido bool) { return e.Activo, e.Conocido }

func (e *Estado) SetActive(v bool) {
	e.Activo = v
	e.Conocido = true
}

// Wire devuelve el estado en la forma del recurso (null si no se conoce).
func (e Estado) Wire(forma upstream.Forma) upstream.Estado {
	if !e.Conocido {
		return upstream.Estado{Forma: forma}
	}
	return upstream.NewEstado(e.Activo, forma)
}

// Etiqueta es "Activo"/"Inactivo" para mostrar en la tabla.
func (e Estado) Etiqueta() string { return upstream.Etiqueta(e.Activo) }
