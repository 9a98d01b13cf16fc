package jwtauth

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("credenciales inválidas")

// Admin es el usuario de arranque de la consola, definido en configuración.
type Admin struct {
	Email        string
	PasswordHash string
}

func (a Admin) Configured() bool {
	return strings.TrimSpace(a.Email) != "" && strings.TrimSpace(a.PasswordHash) != ""
}

// Check compara correo (sin distinguir mayúsculas) y contraseña contra el hash bcrypt.
func (a Admin) Check(email, password string) error {
	if !a.Configured() {
		return ErrBadCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(a.Email)) {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(a.PasswordHash)), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

// HashPassword genera el hash que va en auth.adminPasswordHash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(h), nil
}
