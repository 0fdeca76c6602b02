package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementCreate = "CREATE" // alta de producto
	MovementUpdate = "UPDATE" // edición de producto
	MovementIN     = "IN"     // entrada
	MovementOUT    = "OUT"    // salida
	MovementDelete = "DELETE" // baja de producto
	MovementAdjust = "ADJUST" // ajuste (suma)
)

// InventoryMovement registro append-only del libro. Quantity es magnitud (>= 0);
// la dirección la indica Kind. UserID es nil cuando no hay actor conocido.
type InventoryMovement struct {
	ID        int64
	ProductID int64
	Kind      string
	Quantity  int64
	Note      string
	UserID    *int64
	CreatedAt time.Time
}

// MovementView movimiento con los datos de presentación del producto.
type MovementView struct {
	InventoryMovement
	ProductCode string
	ProductName string
}
