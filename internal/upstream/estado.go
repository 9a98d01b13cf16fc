package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Forma indica cómo viaja un estado en el cable; cada recurso del API usa una distinta.
type Forma int

const (
	FormaEtiqueta Forma = iota // "Activo" / "Inactivo"
	FormaNumero                // 1 / 0
	FormaBool                  // true / false
)

const (
	EtiquetaActivo   = "Activo"
	EtiquetaInactivo = "Inactivo"
)

// Estado acepta cualquiera de las representaciones que devuelve el API y
// recuerda la forma en que llegó para volver a serializar igual.
type Estado struct {
	Activo   bool
	Presente bool
	Forma    Forma
}

func NewEstado(activo bool, forma Forma) Estado {
	return Estado{Activo: activo, Presente: true, Forma: forma}
}

func (e *Estado) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*e = Estado{}

	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*e = NewEstado(v, FormaBool)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		activo, ok := ParseEstado(s)
		if !ok {
			// Valor desconocido: se trata como ausente para no romper el listado.
			return nil
		}
		*e = NewEstado(activo, FormaEtiqueta)
		return nil
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return nil
		}
		*e = NewEstado(n != 0, FormaNumero)
		return nil
	}
}

func (e Estado) MarshalJSON() ([]byte, error) {
	if !e.Presente {
		return []byte("null"), nil
	}
	return json.Marshal(e.Wire())
}

// Wire devuelve el valor tal como lo espera el API según la forma.
func (e Estado) Wire() any {
	switch e.Forma {
	case FormaNumero:
		if e.Activo {
			return 1
		}
		return 0
	case FormaBool:
		return e.Activo
	default:
		return Etiqueta(e.Activo)
	}
}

// Etiqueta devuelve "Activo" o "Inactivo".
func Etiqueta(activo bool) string {
	if activo {
		return EtiquetaActivo
	}
	return EtiquetaInactivo
}

// ParseEstado interpreta las variantes de texto que usa el API.
func ParseEstado(s string) (activo bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "activo", "activa", "active", "1", "true", "si", "sí", "a":
		return true, true
	case "inactivo", "inactiva", "inactive", "0", "false", "no", "i", "anulada", "anulado":
		return false, true
	default:
		return false, false
	}
}
