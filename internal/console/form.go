package console

import "fmt"

type Mode string

const (
	ModeView   Mode = "view"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// FormState es lo que antes vivía en el estado del modal: título, modo y registro.
type FormState[V any] struct {
	Mode     Mode   `json:"mode"`
	Title    string `json:"title"`
	ReadOnly bool   `json:"readOnly"`
	Data     V      `json:"data"`
}

// Title arma "Ver Cliente", "Editar Cliente", "Nuevo Cliente".
func Title(mode Mode, entidad string) string {
	switch mode {
	case ModeView:
		return "Ver " + entidad
	case ModeEdit:
		return "Editar " + entidad
	default:
		return fmt.Sprintf("Nuevo %s", entidad)
	}
}

// Confirmation describe el diálogo que debe aceptar el usuario antes de
// una operación destructiva. Se repite la petición con ?confirm=true.
type Confirmation struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ConfirmText string `json:"confirmText"`
	CancelText  string `json:"cancelText"`
	Destructive bool   `json:"destructive"`
}

// ConfirmRequired devuelve el error que pide confirmación.
func ConfirmRequired(c Confirmation) *Error {
	if c.ConfirmText == "" {
		c.ConfirmText = "Confirmar"
	}
	if c.CancelText == "" {
		c.CancelText = "Cancelar"
	}
	return &Error{Kind: KindConfirm, Message: c.Message, Confirmation: &c}
}
