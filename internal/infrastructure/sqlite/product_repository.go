package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, price, stock, created_at, updated_at`

// ProductRepo implementación sobre SQLite (usable con gateway o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar gateway o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// productRow destino de escaneo; created_at/updated_at pueden ser NULL en filas
// anteriores a la migración de columnas.
type productRow struct {
	p                entity.Product
	created, updated sql.NullInt64
}

func (r *productRow) dest() []any {
	return []any{&r.p.ID, &r.p.Code, &r.p.Name, &r.p.Price, &r.p.Stock, &r.created, &r.updated}
}

func (r *productRow) product() *entity.Product {
	p := r.p
	if r.created.Valid {
		p.CreatedAt = time.Unix(r.created.Int64, 0)
	}
	if r.updated.Valid {
		p.UpdatedAt = time.Unix(r.updated.Int64, 0)
	}
	return &p
}

// likeEscaper hace literales los comodines de LIKE dentro del texto buscado.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List filtra por subcadena (LIKE, sin distinguir mayúsculas ASCII) en code o name,
// ordena por name y pagina. % y _ en q se buscan literalmente.
func (r *ProductRepo) List(ctx context.Context, q string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		query += ` WHERE code LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name COLLATE NOCASE ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	list := make([]*entity.Product, 0)
	err := r.q.QueryMany(ctx, query, args, func(s Scanner) error {
		var row productRow
		if err := s.Scan(row.dest()...); err != nil {
			return err
		}
		list = append(list, row.product())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// GetByID obtiene un producto; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var row productRow
	found, err := r.q.QueryOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, []any{id}, row.dest()...)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !found {
		return nil, nil
	}
	return row.product(), nil
}

// Create persiste un producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (code, name, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.Execute(ctx, query,
		product.Code, product.Name, product.Price, product.Stock,
		product.CreatedAt.Unix(), product.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = res.InsertedID
	return nil
}

// Update reescribe code, name, price, stock y updated_at.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET code = ?, name = ?, price = ?, stock = ?, updated_at = ? WHERE id = ?`
	_, err := r.q.Execute(ctx, query,
		product.Code, product.Name, product.Price, product.Stock, product.UpdatedAt.Unix(), product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// AdjustStock aplica stock = stock + delta en una sola sentencia condicionada a que el
// resultado no sea negativo; sin filas afectadas la guarda rechazó el cambio.
func (r *ProductRepo) AdjustStock(ctx context.Context, id, delta int64, at time.Time) (int64, bool, error) {
	res, err := r.q.Execute(ctx,
		`UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ? AND stock + ? >= 0`,
		delta, at.Unix(), id, delta,
	)
	if err != nil {
		return 0, false, fmt.Errorf("adjust stock: %w", err)
	}
	if res.Changed == 0 {
		return 0, false, nil
	}
	var stock int64
	if _, err := r.q.QueryOne(ctx, `SELECT stock FROM products WHERE id = ?`, []any{id}, &stock); err != nil {
		return 0, false, fmt.Errorf("read stock: %w", err)
	}
	return stock, true, nil
}

// Delete elimina un producto (sus movimientos caen por ON DELETE CASCADE).
func (r *ProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.Execute(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.Changed, nil
}
