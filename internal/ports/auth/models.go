package auth

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
	RoleID int
	// Admin salta la verificación de permisos por módulo.
	Admin bool
}
