package repository

import (
	"context"
	"time"

	"github.com/jhoicas/usa-store/internal/domain/entity"
)

// MovementFilter criterios de listado del libro. ProductID 0 = todos; From/To inclusivos.
type MovementFilter struct {
	ProductID int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// InventoryMovementRepository define el puerto de persistencia para el libro de movimientos.
type InventoryMovementRepository interface {
	// EnsureSchema crea la tabla de movimientos y columnas auxiliares si faltan. Idempotente.
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementView, error)
}
