// Package validation concentra las reglas de formulario que antes se repetían
// en cada pantalla. Los view models declaran sus reglas con tags `validate`.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	reDocumento    = regexp.MustCompile(`^\d{7,12}$`)
	reTelefono     = regexp.MustCompile(`^\d{7,10}$`)
	reNombre       = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÜü]+( [A-Za-zÁÉÍÓÚáéíóúÑñÜü]+)*$`)
	reCodigoBarras = regexp.MustCompile(`^\d{8,14}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator devuelve la instancia compartida con las reglas propias registradas.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Los errores se reportan con el nombre JSON del campo.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("documento", regexRule(reDocumento))
		_ = v.RegisterValidation("telefono", regexRule(reTelefono))
		_ = v.RegisterValidation("nombre", regexRule(reNombre))
		_ = v.RegisterValidation("codigobarras", regexRule(reCodigoBarras))

		instance = v
	})
	return instance
}

func regexRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

// Documento, Telefono y Nombre exponen las reglas para chequeos sueltos.
func Documento(s string) bool { return reDocumento.MatchString(strings.TrimSpace(s)) }
func Telefono(s string) bool  { return reTelefono.MatchString(strings.TrimSpace(s)) }
func Nombre(s string) bool    { return reNombre.MatchString(strings.TrimSpace(s)) }

// Errors es campo JSON -> mensaje para mostrar bajo el input.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add agrega un error de campo (se conserva el primero por campo).
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

func (e *Errors) Empty() bool { return e == nil || len(e.Fields) == 0 }

// Err devuelve nil si no hay errores.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Struct valida v con sus tags y devuelve *Errors (o nil).
func Struct(v any) *Errors {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	out := &Errors{Fields: map[string]string{}}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "Cliente.correo" -> "correo".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "Este campo es obligatorio"
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Debe tener al menos %s elemento(s)", fe.Param())
		}
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
		}
		return fmt.Sprintf("Debe tener máximo %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor a %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "email":
		return "Ingrese un correo electrónico válido"
	case "url", "http_url":
		return "Ingrese una URL válida"
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "documento":
		return "El documento debe tener entre 7 y 12 dígitos"
	case "telefono":
		return "El teléfono debe tener entre 7 y 10 dígitos"
	case "nombre":
		return "Solo se permiten letras y espacios"
	case "codigobarras":
		return "El código de barras debe tener entre 8 y 14 dígitos"
	case "datetime":
		return fmt.Sprintf("Fecha inválida (formato %s)", fe.Param())
	default:
		return "Valor inválido"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
