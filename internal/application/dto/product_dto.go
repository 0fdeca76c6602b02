package dto

import (
	"github.com/shopspring/decimal"
)

// Los precios viajan como número JSON (900, 12.5), no como string.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ListProductsRequest filtros de listado de productos.
type ListProductsRequest struct {
	Q      string `query:"q"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// Page devuelve la paginación con valores por defecto aplicados.
func (r ListProductsRequest) Page() PageRequest {
	p := PageRequest{Limit: r.Limit, Offset: r.Offset}
	p.DefaultPage()
	return p
}

// CreateProductRequest entrada para crear un producto. Price y Stock por defecto 0.
type CreateProductRequest struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

// UpdateProductRequest patch explícito: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Code  Opt[string]          `json:"code"`
	Name  Opt[string]          `json:"name"`
	Price Opt[decimal.Decimal] `json:"price"`
	Stock Opt[int64]           `json:"stock"`
}

// ProductResponse salida de un producto. Fechas en segundos epoch (0 si la fila es previa a la migración).
type ProductResponse struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	CreatedAt int64           `json:"createdAt,omitempty"`
	UpdatedAt int64           `json:"updatedAt,omitempty"`
}

// DeleteProductResponse resultado de la baja (0 si el producto no existía).
type DeleteProductResponse struct {
	Deleted int64 `json:"deleted"`
}
