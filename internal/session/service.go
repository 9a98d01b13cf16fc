// Package session maneja el login de la consola y lo que la UI consulta por
// sesión: la cola de toasts y el estado del overlay.
package session

import (
	"context"
	"strings"
	"time"

	"pet-store-console/internal/adapters/auth/jwtauth"
	"pet-store-console/internal/console"
	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/ports/auth"

	"github.com/pkg/errors"
)

// AdminUserID es el sub del administrador de arranque.
const AdminUserID = "admin"

var ErrInvalidCredentials = errors.New("credenciales inválidas")

type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
	User        User   `json:"user"`
}

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	RoleID int    `json:"rolId,omitempty"`
	Admin  bool   `json:"admin"`
}

type OverlayState struct {
	Visible     bool  `json:"visible"`
	RemainingMs int64 `json:"remainingMs"`
}

type Service struct {
	admin    jwtauth.Admin
	issuer   auth.Issuer
	ttl      time.Duration
	notifier *console.Notifier
	overlay  *console.Overlay
	log      logger.Logger
}

type Deps struct {
	Admin    jwtauth.Admin
	Issuer   auth.Issuer
	TTL      time.Duration
	Notifier *console.Notifier
	Overlay  *console.Overlay
	Log      logger.Logger
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.TTL <= 0 {
		d.TTL = jwtauth.DefaultTTL
	}
	return &Service{
		admin:    d.Admin,
		issuer:   d.Issuer,
		ttl:      d.TTL,
		notifier: d.Notifier,
		overlay:  d.Overlay,
		log:      d.Log,
	}
}

// Login valida al administrador de arranque y emite el token de sesión.
func (s *Service) Login(_ context.Context, email, password string) (Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Token{}, ErrInvalidCredentials
	}
	if err := s.admin.Check(email, password); err != nil {
		s.log.Warn("login rejected", map[string]any{"email": email})
		return Token{}, ErrInvalidCredentials
	}

	claims := auth.Claims{UserID: AdminUserID, Email: email, Admin: true}
	tok, err := s.issuer.Issue(claims)
	if err != nil {
		return Token{}, errors.Wrap(err, "issue session token")
	}
	s.log.Info("login", map[string]any{"email": email})
	return Token{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		User:        UserOf(claims),
	}, nil
}

func UserOf(c auth.Claims) User {
	return User{ID: c.UserID, Email: c.Email, RoleID: c.RoleID, Admin: c.Admin}
}

// Notifications entrega los toasts pendientes de la sesión.
func (s *Service) Notifications(session string) []console.Notification {
	out := s.notifier.Drain(session)
	if out == nil {
		return []console.Notification{}
	}
	return out
}

func (s *Service) Overlay(session string) OverlayState {
	return OverlayState{
		Visible:     s.overlay.Visible(session),
		RemainingMs: s.overlay.Remaining(session).Milliseconds(),
	}
}
