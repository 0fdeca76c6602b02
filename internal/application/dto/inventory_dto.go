package dto

// StockMovementRequest body para POST /api/inventory/movements.
// Kind: IN, OUT o ADJUST (sin distinguir mayúsculas). Quantity debe ser entero positivo.
type StockMovementRequest struct {
	ProductID int64   `json:"productId"`
	Kind      string  `json:"kind"`
	Quantity  float64 `json:"quantity"`
	Note      string  `json:"note"`
}

// StockMovementResponse stock resultante tras el movimiento.
type StockMovementResponse struct {
	ProductID int64 `json:"productId"`
	Stock     int64 `json:"stock"`
}

// ListMovementsRequest filtros del libro. From/To en segundos epoch, inclusivos; 0 = sin límite.
type ListMovementsRequest struct {
	ProductID int64 `query:"productId"`
	Limit     int   `query:"limit"`
	Offset    int   `query:"offset"`
	From      int64 `query:"from"`
	To        int64 `query:"to"`
}

// Page devuelve la paginación con valores por defecto aplicados.
func (r ListMovementsRequest) Page() PageRequest {
	p := PageRequest{Limit: r.Limit, Offset: r.Offset}
	p.DefaultPage()
	return p
}

// MovementResponse movimiento del libro con code/name del producto.
type MovementResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductCode string `json:"code"`
	ProductName string `json:"name"`
	Kind        string `json:"kind"`
	Quantity    int64  `json:"quantity"`
	Note        string `json:"note"`
	UserID      *int64 `json:"userId"`
	CreatedAt   int64  `json:"createdAt"`
}
