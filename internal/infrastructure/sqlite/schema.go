package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema/0001_init.sql
var baseSchema string

// applyBaseSchema crea las tablas base (users, products) si no existen.
// La tabla de movimientos la crea el libro de inventario (EnsureSchema).
func applyBaseSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, baseSchema); err != nil {
		return fmt.Errorf("aplicar esquema base: %w", err)
	}
	return nil
}
