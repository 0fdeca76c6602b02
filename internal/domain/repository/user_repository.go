package repository

import (
	"context"
	"time"

	"github.com/jhoicas/usa-store/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get/Find devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// FindByUsername busca sin distinguir mayúsculas (COLLATE NOCASE).
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id int64, changes entity.UserChanges, updatedAt time.Time) (int64, error)
	// CountAdmins cuenta usuarios ADMIN excluyendo excludeID (0 = no excluir).
	CountAdmins(ctx context.Context, excludeID int64) (int, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
