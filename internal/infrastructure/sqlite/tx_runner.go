package sqlite

import (
	"context"

	"github.com/jhoicas/usa-store/internal/application/auth"
	"github.com/jhoicas/usa-store/internal/application/inventory"
	"github.com/jhoicas/usa-store/internal/application/usecase"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de cada caso de uso.
var (
	_ inventory.TxRunner   = (*TxRunner)(nil)
	_ auth.TxRunner        = (*TxRunner)(nil)
	_ usecase.UserTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción SQLite con repositorios atados a ella.
type TxRunner struct {
	gw *Gateway
}

// NewTxRunner construye el runner sobre el gateway.
func NewTxRunner(gw *Gateway) *TxRunner {
	return &TxRunner{gw: gw}
}

// Run abre una transacción con los repositorios del libro de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.gw.Tx(ctx, func(q Querier) error {
		return fn(NewProductRepository(q), NewInventoryMovementRepository(q))
	})
}

// RunUsers abre una transacción con el repositorio de usuarios (chequeo + escritura atómicos).
func (r *TxRunner) RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error {
	return r.gw.Tx(ctx, func(q Querier) error {
		return fn(NewUserRepository(q))
	})
}
