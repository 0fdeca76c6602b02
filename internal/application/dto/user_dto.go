package dto

// SetupRequest entrada para crear el primer administrador.
type SetupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse datos mínimos de la sesión (nunca incluye el hash).
type SessionResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// LoginResponse sesión iniciada más el token firmado para el bridge.
type LoginResponse struct {
	Session SessionResponse `json:"session"`
	Token   string          `json:"token"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UpdateUserRequest actualización parcial; solo se tocan los campos presentes.
// Password vacío equivale a no cambiarla.
type UpdateUserRequest struct {
	ID       int64       `json:"id"`
	Name     Opt[string] `json:"name"`
	Role     Opt[string] `json:"role"`
	Password Opt[string] `json:"password"`
}

// UserResponse salida de un usuario (sin password). Fechas en segundos epoch.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ChangedResponse filas afectadas por update/remove.
type ChangedResponse struct {
	Changed int64 `json:"changed"`
}
