package inventory

import (
	"context"

	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Producto, stock y movimientos de una operación se confirman o se descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}

// HandleGeneration cambia cada vez que el almacén se reabre (p. ej. tras restaurar un respaldo).
type HandleGeneration interface {
	Generation() uint64
}
