package auth

import (
	"context"

	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con el repositorio de usuarios atado a ella.
type TxRunner interface {
	RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error
}

// SessionStore slot de la sesión actual del proceso (una sola a la vez).
type SessionStore interface {
	Get() *entity.Session
	Set(s *entity.Session)
	Clear()
	Reset()
}

// LockoutStore estado de intentos fallidos por username normalizado.
// Update aplica fn de forma atómica sobre la entrada (creándola si no existe).
type LockoutStore interface {
	Get(key string) entity.LoginAttemptState
	Update(key string, fn func(st *entity.LoginAttemptState))
	Delete(key string)
	Reset()
}
