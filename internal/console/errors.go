package console

import (
	"context"
	"fmt"
	"strings"

	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/validation"

	"github.com/pkg/errors"
)

// Kind clasifica los errores que ve el usuario; respond los mapea a HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindProtected
	KindBadState
	KindConfirm
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindProtected:
		return "protected"
	case KindBadState:
		return "bad_state"
	case KindConfirm:
		return "confirmation_required"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error es el error de consola: trae el mensaje listo para mostrar.
type Error struct {
	Kind         Kind
	Message      string
	Fields       map[string]string
	Confirmation *Confirmation
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Invalid arma un error de validación con un solo campo.
func Invalid(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: map[string]string{field: msg}}
}

// FromValidation convierte los errores de formulario.
func FromValidation(errs *validation.Errors) *Error {
	if errs.Empty() {
		return nil
	}
	return &Error{
		Kind:    KindValidation,
		Message: "Por favor corrija los errores del formulario",
		Fields:  errs.Fields,
		Err:     errs,
	}
}

// KindOf devuelve el Kind de err (KindInternal si no es *Error).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// dependencyKeywords: palabra en el error del servidor -> qué tiene asociado.
var dependencyKeywords = []struct {
	keyword string
	phrase  string
}{
	{"mascota", "tiene mascotas asociadas"},
	{"venta", "tiene ventas asociadas"},
	{"compra", "tiene compras asociadas"},
	{"producto", "tiene productos asociados"},
	{"cita", "tiene citas asociadas"},
	{"servicio", "tiene servicios asociados"},
	{"usuario", "tiene usuarios asociados"},
}

// FromUpstream traduce un error del API a un *Error con mensaje para el usuario.
// entidad va con artículo ("el cliente", "la categoría").
func FromUpstream(err error, entidad string) *Error {
	return translate(err, entidad, false)
}

// FromDelete es FromUpstream para el borrado: los errores de dependencia se
// explican como "No se puede eliminar <entidad> porque tiene ...".
func FromDelete(err error, entidad string) *Error {
	return translate(err, entidad, true)
}

func translate(err error, entidad string, deleting bool) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUpstream, Message: "El servidor tardó demasiado en responder", Err: err}
	}

	he, ok := httpclient.AsHTTPError(err)
	if !ok {
		return &Error{Kind: KindUpstream, Message: "No se pudo conectar con el servidor", Err: err}
	}

	msg := he.Message()
	lower := strings.ToLower(he.Body)

	if strings.Contains(lower, "duplicate entry") {
		return &Error{Kind: KindConflict, Message: "Ya existe un registro con los mismos datos", Err: err}
	}
	if deleting && isDependencyError(he.StatusCode, lower) {
		if phrase, ok := dependencyPhrase(lower, entidad); ok {
			return &Error{
				Kind:    KindConflict,
				Message: fmt.Sprintf("No se puede eliminar %s porque %s", entidad, phrase),
				Err:     err,
			}
		}
	}

	switch {
	case he.StatusCode == 404:
		return &Error{Kind: KindNotFound, Message: capitalize(entidad) + " no existe", Err: err}
	case he.StatusCode == 409:
		return &Error{Kind: KindConflict, Message: orDefault(msg, "La operación entra en conflicto con datos existentes"), Err: err}
	case he.StatusCode == 400 || he.StatusCode == 422:
		return &Error{Kind: KindValidation, Message: orDefault(msg, "Datos inválidos"), Err: err}
	case he.StatusCode >= 500:
		return &Error{Kind: KindUpstream, Message: orDefault(msg, "Error en el servidor"), Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: orDefault(msg, "Error al comunicarse con el servidor"), Err: err}
	}
}

func isDependencyError(status int, body string) bool {
	return status == 409 || status >= 500 ||
		strings.Contains(body, "foreign key") || strings.Contains(body, "parent row")
}

// dependencyPhrase busca qué tiene asociado el registro. La palabra de la
// propia entidad no cuenta: el error de borrar una mascota siempre la nombra.
func dependencyPhrase(body, entidad string) (string, bool) {
	propio := strings.ToLower(strings.TrimSpace(entidad))
	for _, art := range []string{"el ", "la ", "los ", "las "} {
		propio = strings.TrimPrefix(propio, art)
	}
	for _, d := range dependencyKeywords {
		if strings.HasPrefix(propio, d.keyword) {
			continue
		}
		if strings.Contains(body, d.keyword) {
			return d.phrase, true
		}
	}
	return "", false
}

// FriendlyMessage devuelve el texto a mostrar para cualquier error.
func FriendlyMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) && strings.TrimSpace(ce.Message) != "" {
		return ce.Message
	}
	if he, ok := httpclient.AsHTTPError(err); ok {
		if msg := he.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
