package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite/sqlitetest"
)

func seedProduct(t *testing.T, repo *sqlite.ProductRepo, code, name string, stock int64) *entity.Product {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	p := &entity.Product{Code: code, Name: name, Price: decimal.RequireFromString("1.5"), Stock: stock, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_CrearBuscarYActualizar(t *testing.T) {
	gw := sqlitetest.New(t)
	repo := sqlite.NewUserRepository(gw)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	u := &entity.User{Name: "Ana", Username: "ana", Role: entity.RoleAdmin, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.FindByUsername(ctx, "ANA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, now, got.CreatedAt)

	dup := &entity.User{Name: "Otra", Username: "Ana", Role: entity.RoleWorker, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	assert.True(t, errors.Is(repo.Create(ctx, dup), domain.ErrUsernameTaken))

	role := entity.RoleWorker
	changed, err := repo.Update(ctx, u.ID, entity.UserChanges{Role: &role}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWorker, got.Role)
	assert.Equal(t, "Ana", got.Name)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_CountAdminsExcluye(t *testing.T) {
	gw := sqlitetest.New(t)
	repo := sqlite.NewUserRepository(gw)
	ctx := context.Background()
	now := time.Now()

	a := &entity.User{Name: "Ana", Username: "ana", Role: entity.RoleAdmin, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	b := &entity.User{Name: "Beto", Username: "beto", Role: entity.RoleWorker, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	n, err := repo.CountAdmins(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountAdmins(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)

	deleted, err := repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y libro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryMovementRepo_EnsureSchemaIdempotente(t *testing.T) {
	gw := sqlitetest.New(t)
	repo := sqlite.NewInventoryMovementRepository(gw)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "las columnas duplicadas se toleran")

	var n int
	_, err := gw.QueryOne(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('products') WHERE name IN ('created_at', 'updated_at')`, nil, &n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProductRepo_AdjustStockGuardaNoNegativa(t *testing.T) {
	gw := sqlitetest.New(t)
	ctx := context.Background()
	require.NoError(t, sqlite.NewInventoryMovementRepository(gw).EnsureSchema(ctx))
	repo := sqlite.NewProductRepository(gw)
	p := seedProduct(t, repo, "C1", "Café", 5)

	stock, ok, err := repo.AdjustStock(ctx, p.ID, -3, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), stock)

	_, ok, err = repo.AdjustStock(ctx, p.ID, -3, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "la guarda debe rechazar stock negativo")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1.5")))

	_, ok, err = repo.AdjustStock(ctx, 999, 1, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepo_ListFiltraYOrdena(t *testing.T) {
	gw := sqlitetest.New(t)
	ctx := context.Background()
	require.NoError(t, sqlite.NewInventoryMovementRepository(gw).EnsureSchema(ctx))
	repo := sqlite.NewProductRepository(gw)
	seedProduct(t, repo, "B-1", "banano", 1)
	seedProduct(t, repo, "A-1", "Arroz", 1)
	seedProduct(t, repo, "X-9", "Azúcar", 1)

	all, err := repo.List(ctx, "", 100, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Arroz", "Azúcar", "banano"}, []string{all[0].Name, all[1].Name, all[2].Name})

	filtered, err := repo.List(ctx, "-1", 100, 0)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	page, err := repo.List(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Azúcar", page[0].Name)
}

func TestProductRepo_ListComodinesLiteralesYMayusculas(t *testing.T) {
	gw := sqlitetest.New(t)
	ctx := context.Background()
	require.NoError(t, sqlite.NewInventoryMovementRepository(gw).EnsureSchema(ctx))
	repo := sqlite.NewProductRepository(gw)
	seedProduct(t, repo, "D-1", "Descuento 50%", 1)
	seedProduct(t, repo, "U_2", "Uva", 1)
	seedProduct(t, repo, "B-1", "Banano", 1)

	names := func(q string) []string {
		t.Helper()
		list, err := repo.List(ctx, q, 100, 0)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Descuento 50%"}, names("%"))
	assert.Equal(t, []string{"Uva"}, names("_"))
	assert.Empty(t, names(`\`))
	assert.Equal(t, []string{"Banano"}, names("BAN"))
}

func TestInventoryMovementRepo_ListFiltrosYCascada(t *testing.T) {
	gw := sqlitetest.New(t)
	ctx := context.Background()
	movRepo := sqlite.NewInventoryMovementRepository(gw)
	require.NoError(t, movRepo.EnsureSchema(ctx))
	prodRepo := sqlite.NewProductRepository(gw)
	p1 := seedProduct(t, prodRepo, "P1", "Pan", 0)
	p2 := seedProduct(t, prodRepo, "P2", "Leche", 0)

	actor := int64(7)
	base := time.Unix(1_700_000_000, 0)
	for i, m := range []*entity.InventoryMovement{
		{ProductID: p1.ID, Kind: entity.MovementCreate, CreatedAt: base},
		{ProductID: p1.ID, Kind: entity.MovementIN, Quantity: 4, Note: "Entrada", UserID: &actor, CreatedAt: base.Add(time.Hour)},
		{ProductID: p2.ID, Kind: entity.MovementCreate, CreatedAt: base.Add(2 * time.Hour)},
	} {
		require.NoError(t, movRepo.Create(ctx, m), "movimiento %d", i)
	}

	all, err := movRepo.List(ctx, repository.MovementFilter{Limit: 100})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "P2", all[0].ProductCode)
	assert.Nil(t, all[0].UserID)
	require.NotNil(t, all[1].UserID)
	assert.Equal(t, actor, *all[1].UserID)
	assert.Equal(t, "Entrada", all[1].Note)

	from := base.Add(time.Hour)
	to := base.Add(time.Hour)
	ranged, err := movRepo.List(ctx, repository.MovementFilter{From: &from, To: &to, Limit: 100})
	require.NoError(t, err)
	require.Len(t, ranged, 1, "los límites son inclusivos")
	assert.Equal(t, entity.MovementIN, ranged[0].Kind)

	byProduct, err := movRepo.List(ctx, repository.MovementFilter{ProductID: p1.ID, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	_, err = prodRepo.Delete(ctx, p1.ID)
	require.NoError(t, err)
	left, err := movRepo.List(ctx, repository.MovementFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, left, 1, "ON DELETE CASCADE elimina los movimientos del producto")
}
