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

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementsTable = `
	CREATE TABLE IF NOT EXISTS inventory_movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('CREATE','UPDATE','IN','OUT','DELETE','ADJUST')),
		quantity INTEGER NOT NULL DEFAULT 0,
		note TEXT,
		user_id INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY(product_id) REFERENCES products(id) ON DELETE CASCADE
	)`

// productColumnMigrations columnas añadidas a products; se toleran si ya existen.
var productColumnMigrations = []string{
	`ALTER TABLE products ADD COLUMN created_at INTEGER`,
	`ALTER TABLE products ADD COLUMN updated_at INTEGER`,
}

const movementsIndex = `CREATE INDEX IF NOT EXISTS idx_movements_prod_time ON inventory_movements(product_id, created_at DESC)`

// InventoryMovementRepo implementación sobre SQLite (usable con gateway o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar gateway o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// EnsureSchema crea la tabla del libro y su índice, y agrega columnas de auditoría a products.
// Las columnas duplicadas se ignoran en silencio; cualquier otro error se propaga.
func (r *InventoryMovementRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Execute(ctx, movementsTable); err != nil {
		return fmt.Errorf("create inventory_movements: %w", err)
	}
	for _, stmt := range productColumnMigrations {
		if _, err := r.q.Execute(ctx, stmt); err != nil && !isDuplicateColumn(err) {
			return fmt.Errorf("migrate products: %w", err)
		}
	}
	if _, err := r.q.Execute(ctx, movementsIndex); err != nil {
		return fmt.Errorf("create movements index: %w", err)
	}
	return nil
}

// Create persiste un movimiento y asigna su ID.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (product_id, kind, quantity, note, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	var userID sql.NullInt64
	if m.UserID != nil {
		userID = sql.NullInt64{Int64: *m.UserID, Valid: true}
	}
	res, err := r.q.Execute(ctx, query,
		m.ProductID, m.Kind, m.Quantity, m.Note, userID, m.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	m.ID = res.InsertedID
	return nil
}

// List devuelve movimientos unidos con code/name del producto, del más reciente al más antiguo.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementView, error) {
	var where []string
	var args []any
	if f.ProductID != 0 {
		where = append(where, "m.product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.From != nil {
		where = append(where, "m.created_at >= ?")
		args = append(args, f.From.Unix())
	}
	if f.To != nil {
		where = append(where, "m.created_at <= ?")
		args = append(args, f.To.Unix())
	}

	query := `
		SELECT m.id, m.product_id, p.code, p.name,
		       m.kind, m.quantity, m.note, m.user_id, m.created_at
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	list := make([]*entity.MovementView, 0)
	err := r.q.QueryMany(ctx, query, args, func(s Scanner) error {
		var v entity.MovementView
		var note sql.NullString
		var userID sql.NullInt64
		var created int64
		if err := s.Scan(&v.ID, &v.ProductID, &v.ProductCode, &v.ProductName,
			&v.Kind, &v.Quantity, &note, &userID, &created); err != nil {
			return err
		}
		v.Note = note.String
		if userID.Valid {
			id := userID.Int64
			v.UserID = &id
		}
		v.CreatedAt = time.Unix(created, 0)
		list = append(list, &v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}
