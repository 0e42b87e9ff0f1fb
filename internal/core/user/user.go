package user

import (
	"errors"
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// Sentinel errors for the staff account lifecycle.
var (
	ErrNotFound           = errors.New("usuario no encontrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInactive           = errors.New("usuario desactivado")
	ErrDuplicateEmail     = errors.New("el email ya está registrado")
)

// User is a staff account with panel access.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	NombreCompleto      string
	Rol                 claim.Role
	Activo              bool
	DebeCambiarPassword bool
	UltimoAcceso        *time.Time
	FechaCreacion       time.Time
}

// ValidRole reports whether r is a staff role this system grants.
func ValidRole(r claim.Role) bool {
	return r == claim.RoleAdmin || r == claim.RoleSoporte
}

// NewAccount is the input for creating a staff account.
type NewAccount struct {
	Email          string
	Password       string
	NombreCompleto string
	Rol            claim.Role
}

// AccountUpdate carries the mutable account fields; nil means leave as is.
type AccountUpdate struct {
	NombreCompleto *string
	Rol            *claim.Role
	Activo         *bool
}
