package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pet-store-console/internal/platform/respond"
	"pet-store-console/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
//   - Si viene Bearer token y hay verifier => intenta Verify() y setea claims.
//   - En modo dev, el header X-Debug-User-ID setea claims sin token
//     (X-Debug-Role-ID opcional; sin rol se asume admin).
//   - Si no hay claims, el request sigue igual; RequireSession decide el 401.
func AuthContext(verifier auth.AuthVerifier, devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if devMode {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					claims := auth.Claims{UserID: uid, Admin: true}
					if rid, err := strconv.Atoi(strings.TrimSpace(r.Header.Get("X-Debug-Role-ID"))); err == nil {
						claims.RoleID = rid
						claims.Admin = false
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if verifier == nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireSession corta con 401 si el request no trae claims.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// Session devuelve la clave de sesión de consola (el id de usuario).
func Session(ctx context.Context) string {
	c, _ := GetClaims(ctx)
	return c.UserID
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
