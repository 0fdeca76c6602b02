package repository

import (
	"context"
	"time"

	"github.com/jhoicas/usa-store/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// List filtra por subcadena en code o name y ordena por name sin distinguir mayúsculas.
	List(ctx context.Context, q string, limit, offset int) ([]*entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock de forma atómica solo si el resultado no es negativo.
	// ok=false indica que la guarda rechazó el cambio (o que el producto no existe).
	AdjustStock(ctx context.Context, id, delta int64, at time.Time) (stock int64, ok bool, err error)
	Delete(ctx context.Context, id int64) (int64, error)
}
