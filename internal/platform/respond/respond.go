// Package respond centraliza la escritura de respuestas JSON y el mapeo de
// errores de consola a códigos HTTP.
package respond

import (
	"encoding/json"
	"net/http"

	"pet-store-console/internal/console"

	"github.com/pkg/errors"
)

// ErrorBody es el sobre de error que recibe el navegador.
type ErrorBody struct {
	Detail       string                `json:"detail"`
	Kind         string                `json:"kind"`
	Fields       map[string]string     `json:"fields,omitempty"`
	Confirmation *console.Confirmation `json:"confirmation,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor mapea el Kind de consola al código HTTP.
func StatusFor(k console.Kind) int {
	switch k {
	case console.KindValidation:
		return http.StatusUnprocessableEntity
	case console.KindNotFound:
		return http.StatusNotFound
	case console.KindConflict, console.KindBadState:
		return http.StatusConflict
	case console.KindProtected:
		return http.StatusForbidden
	case console.KindConfirm:
		return http.StatusPreconditionRequired
	case console.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error escribe err con el sobre {"detail","kind","fields"}.
func Error(w http.ResponseWriter, err error) {
	var ce *console.Error
	if !errors.As(err, &ce) {
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Detail: "internal error",
			Kind:   console.KindInternal.String(),
		})
		return
	}
	JSON(w, StatusFor(ce.Kind), ErrorBody{
		Detail:       ce.Message,
		Kind:         ce.Kind.String(),
		Fields:       ce.Fields,
		Confirmation: ce.Confirmation,
	})
}

// Message escribe un error simple sin pasar por console.Error.
func Message(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, ErrorBody{Detail: detail, Kind: http.StatusText(status)})
}

// Decode lee el body JSON en dst.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return console.NewError(console.KindValidation, "invalid json")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &console.Error{Kind: console.KindValidation, Message: "invalid json", Err: err}
	}
	return nil
}
