package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex guarda como texto un campo que a veces llega como número y a veces
// como string (p.ej. IdEspecie = 1 o "Canino").
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Flex(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

func (f Flex) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(s)
}

// Int devuelve el valor numérico o 0.
func (f Flex) Int() int {
	n, _ := strconv.Atoi(strings.TrimSpace(string(f)))
	return n
}

// Flag es un booleano tolerante (true/false, 1/0, "Si"/"No").
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}
	switch b[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flag(v)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, _ := ParseEstado(s)
		*f = Flag(v)
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		*f = Flag(n != 0)
	}
	return nil
}

// StringList acepta un arreglo JSON o un texto separado por comas.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = nil
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = compact(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = compact(strings.Split(s, ","))
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
