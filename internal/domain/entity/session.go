package entity

import "time"

// Session sesión activa del proceso. ID identifica la instancia de sesión y
// permite invalidar tokens emitidos antes de un logout.
type Session struct {
	ID        string
	UserID    int64
	Name      string
	Role      string
	StartedAt time.Time
}

// LoginAttemptState estado de intentos fallidos por username normalizado.
// Al alcanzar el umbral se fija LockedUntil y FailCount vuelve a cero.
type LoginAttemptState struct {
	FailCount   int
	LockedUntil time.Time
}

// Locked indica si el bloqueo sigue vigente en el instante now.
func (s LoginAttemptState) Locked(now time.Time) bool {
	return !s.LockedUntil.IsZero() && now.Before(s.LockedUntil)
}
