package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "ADMIN"
	RoleWorker = "WORKER"
)

// Roles lista cerrada de roles aceptados.
var Roles = []string{RoleAdmin, RoleWorker}

// User representa una cuenta de acceso al punto de venta.
// Username se guarda normalizado (trim + minúsculas) y es único sin distinguir mayúsculas.
type User struct {
	ID           int64
	Name         string
	Username     string
	Role         string
	PasswordHash string // bcrypt, nunca sale de la capa de aplicación
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol ADMIN.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// UserChanges campos a modificar en una actualización parcial; nil = sin cambio.
type UserChanges struct {
	Name         *string
	Role         *string
	PasswordHash *string
}

// Empty indica que no hay ningún campo por actualizar.
func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Role == nil && c.PasswordHash == nil
}
