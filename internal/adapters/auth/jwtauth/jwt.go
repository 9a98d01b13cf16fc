// Package jwtauth firma y verifica los tokens de sesión de la consola (HS256).
// Acepta también los tokens del servicio de autenticación del API que usan
// el mismo secreto.
package jwtauth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"pet-store-console/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrTokenInvalid  = errors.New("token invalid or expired")
)

const DefaultTTL = 8 * time.Hour

type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// claims es el payload firmado. "rol" puede venir como número o texto según
// quién emitió el token.
type claims struct {
	Email string `json:"email,omitempty"`
	Rol   any    `json:"rol,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func New(cfg Config) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	iss := strings.TrimSpace(cfg.Issuer)
	if iss == "" {
		iss = "pet-store-console"
	}
	return &Service{
		secret: []byte(strings.TrimSpace(cfg.Secret)),
		ttl:    ttl,
		issuer: iss,
		now:    time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue implementa auth.Issuer.
func (s *Service) Issue(c auth.Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNotConfigured
	}
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: c.Email,
		Rol:   c.RoleID,
		Admin: c.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify implementa auth.AuthVerifier.
func (s *Service) Verify(_ context.Context, token string) (auth.Claims, error) {
	if len(s.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return auth.Claims{}, errors.Wrap(ErrTokenInvalid, errMsg(err))
	}

	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, errors.Wrap(ErrTokenInvalid, "missing sub")
	}
	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(c.Email),
		RoleID: rolID(c.Rol),
		Admin:  c.Admin,
	}, nil
}

func rolID(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(x))
		return n
	}
	return 0
}

func errMsg(err error) string {
	if err == nil {
		return "invalid"
	}
	return err.Error()
}
