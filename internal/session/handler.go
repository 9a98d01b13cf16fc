package session

import (
	"net/http"

	"pet-store-console/internal/middleware"
	"pet-store-console/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPublicRoutes monta el login (sin sesión).
func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Post("/session", loginHandler(svc))
}

// RegisterRoutes monta /me/* (requiere sesión).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me", func(mr chi.Router) {
		mr.Get("/", meHandler())
		mr.Get("/notifications", notificationsHandler(svc))
		mr.Get("/overlay", overlayHandler(svc))
	})
}

// loginHandler
//
// @Summary  Iniciar sesión
// @Tags     session
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "Credenciales"
// @Success  200 {object} session.Token
// @Failure  401 {object} respond.ErrorBody
// @Router   /session [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginRequest
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, err)
			return
		}
		tok, err := svc.Login(r.Context(), in.Email, in.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Message(w, http.StatusUnauthorized, "Correo o contraseña incorrectos")
			return
		}
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, tok)
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		respond.JSON(w, http.StatusOK, UserOf(claims))
	}
}

// @Summary  Toasts pendientes
// @Tags     session
// @Produce  json
// @Success  200 {array} console.Notification
// @Router   /me/notifications [get]
func notificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, svc.Notifications(middleware.Session(r.Context())))
	}
}

// @Summary  Estado del overlay de carga
// @Tags     session
// @Produce  json
// @Success  200 {object} session.OverlayState
// @Router   /me/overlay [get]
func overlayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, svc.Overlay(middleware.Session(r.Context())))
	}
}
