package middleware

import (
	"net/http"

	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/platform/respond"
	"pet-store-console/internal/ports/capabilities"
)

// RequirePermission exige el permiso del módulo (p.ej. "Clientes").
// Con resolver nil no se verifica nada.
func RequirePermission(resolver capabilities.CapabilitiesResolver, log logger.Logger, permiso string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			allowed, err := resolver.HasFeature(r.Context(), capabilities.CapabilityCheck{
				UserID:     claims.UserID,
				RoleID:     claims.RoleID,
				Admin:      claims.Admin,
				Capability: permiso,
			})
			if err != nil {
				log.Warn("permission check failed", map[string]any{
					"user":    claims.UserID,
					"permiso": permiso,
					"error":   err,
				})
				respond.Message(w, http.StatusBadGateway, "No se pudieron verificar los permisos")
				return
			}
			if !allowed {
				respond.Message(w, http.StatusForbidden, "No tiene permiso para acceder a "+permiso)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
