package mascotas

import (
	"strconv"
	"strings"

	"pet-store-console/internal/upstream"
)

const (
	EspecieCanino = 1
	EspecieFelino = 2
)

var especies = map[int]string{
	EspecieCanino: "Canino",
	EspecieFelino: "Felino",
}

// Especie es una opción del selector.
type Especie struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

func Especies() []Especie {
	return []Especie{
		{ID: EspecieCanino, Nombre: especies[EspecieCanino]},
		{ID: EspecieFelino, Nombre: especies[EspecieFelino]},
	}
}

// EspecieID acepta el id (1, "1") o el nombre ("Canino", "felino") y
// devuelve el id; 0 si no se reconoce.
func EspecieID(x any) int {
	switch v := x.(type) {
	case int:
		if _, ok := especies[v]; ok {
			return v
		}
		return 0
	case upstream.Flex:
		return EspecieID(string(v))
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return EspecieID(n)
		}
		for id, nombre := range especies {
			if strings.EqualFold(nombre, s) {
				return id
			}
		}
		// "Perro"/"Gato" aparecen en registros viejos.
		switch strings.ToLower(s) {
		case "perro":
			return EspecieCanino
		case "gato":
			return EspecieFelino
		}
	}
	return 0
}

// EspecieNombre es la inversa de EspecieID; "" si no se reconoce.
func EspecieNombre(x any) string {
	return especies[EspecieID(x)]
}
