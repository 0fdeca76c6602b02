package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del inventario. Code es único por convención, no por restricción de BD.
// Stock nunca queda negativo después de una mutación.
type Product struct {
	ID        int64
	Code      string
	Name      string
	Price     decimal.Decimal
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
