package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Issuer emite tokens de sesión para la consola.
type Issuer interface {
	Issue(c Claims) (token string, err error)
}
