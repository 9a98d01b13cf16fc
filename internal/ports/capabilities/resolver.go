package capabilities

import "context"

// CapabilityCheck pregunta si el usuario tiene un permiso de módulo
// (p.ej. "Clientes").
type CapabilityCheck struct {
	UserID     string
	RoleID     int
	Admin      bool
	Capability string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
