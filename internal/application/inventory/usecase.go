package inventory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// Códigos de regla violada reportados en VALIDATION_ERROR.
const (
	FieldCodeNameRequired = "CODE_NAME_REQUIRED"
	FieldNegativeValues   = "NEGATIVE_VALUES"
	FieldQtyPositive      = "QTY_POSITIVE"
	FieldQtyInteger       = "QTY_INTEGER"
	FieldKindInvalid      = "KIND_INVALID"
)

// Notas fijas del libro.
const (
	noteCreate     = "Alta de producto"
	noteInitial    = "Stock inicial"
	noteEditAdjust = "Ajuste por edición"
	noteEdit       = "Edición de producto"
	noteDelete     = "Baja de producto"
)

const msgProductNotFound = "Producto no existe"

// LedgerUseCase productos y libro de movimientos. Cada mutación deja su asiento de auditoría
// y el stock nunca queda negativo.
type LedgerUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
	txRunner    TxRunner
	store       HandleGeneration
	now         func() time.Time
	log         zerolog.Logger

	schemaMu    sync.Mutex
	schemaReady bool
	schemaGen   uint64
}

// NewLedgerUseCase construye el caso de uso. store puede ser nil (esquema asegurado una sola vez).
func NewLedgerUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	txRunner TxRunner,
	store HandleGeneration,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		txRunner:    txRunner,
		store:       store,
		now:         time.Now,
		log:         log.With().Str("component", "inventory").Logger(),
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *LedgerUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

func (uc *LedgerUseCase) generation() uint64 {
	if uc.store == nil {
		return 0
	}
	return uc.store.Generation()
}

// ensureSchema crea la tabla del libro una vez por apertura del almacén. Si falla se reintenta en la siguiente llamada.
func (uc *LedgerUseCase) ensureSchema(ctx context.Context) error {
	uc.schemaMu.Lock()
	defer uc.schemaMu.Unlock()
	if uc.schemaReady && uc.schemaGen == uc.generation() {
		return nil
	}
	if err := uc.movRepo.EnsureSchema(ctx); err != nil {
		uc.schemaReady = false
		return err
	}
	uc.schemaReady = true
	uc.schemaGen = uc.generation()
	uc.log.Debug().Uint64("generation", uc.schemaGen).Msg("esquema del libro asegurado")
	return nil
}

// ListProducts filtra por subcadena en code o name; limit 100 y offset 0 por defecto.
func (uc *LedgerUseCase) ListProducts(ctx context.Context, in dto.ListProductsRequest) ([]dto.ProductResponse, error) {
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}
	page := in.Page()
	products, err := uc.productRepo.List(ctx, strings.TrimSpace(in.Q), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// CreateProduct inserta el producto con su asiento CREATE y, si trae stock, el IN inicial.
func (uc *LedgerUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest, actorID int64) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.NewValidation(FieldCodeNameRequired)
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.NewValidation(FieldNegativeValues)
	}
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var created *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) error {
		now := uc.now()
		p := &entity.Product{
			Code:      code,
			Name:      name,
			Price:     in.Price,
			Stock:     in.Stock,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, newMovement(p.ID, entity.MovementCreate, 0, noteCreate, actorID, now)); err != nil {
			return err
		}
		if p.Stock > 0 {
			if err := movRepo.Create(ctx, newMovement(p.ID, entity.MovementIN, p.Stock, noteInitial, actorID, now)); err != nil {
				return err
			}
		}
		var err error
		created, err = productRepo.GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(created), nil
}

// UpdateProduct fusiona el patch con el producto actual. Un cambio de stock deja un IN/OUT
// por la diferencia; siempre se registra un UPDATE.
func (uc *LedgerUseCase) UpdateProduct(ctx context.Context, id int64, patch dto.UpdateProductRequest, actorID int64) (*dto.ProductResponse, error) {
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) error {
		cur, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.NewNotFound(msgProductNotFound)
		}

		next := *cur
		if v, ok := patch.Code.Get(); ok {
			next.Code = strings.TrimSpace(v)
		}
		if v, ok := patch.Name.Get(); ok {
			next.Name = strings.TrimSpace(v)
		}
		next.Price = patch.Price.Or(cur.Price)
		next.Stock = patch.Stock.Or(cur.Stock)
		if next.Code == "" || next.Name == "" {
			return domain.NewValidation(FieldCodeNameRequired)
		}
		if next.Price.IsNegative() || next.Stock < 0 {
			return domain.NewValidation(FieldNegativeValues)
		}

		now := uc.now()
		next.UpdatedAt = now
		if err := productRepo.Update(ctx, &next); err != nil {
			return err
		}
		if delta := next.Stock - cur.Stock; delta != 0 {
			kind := entity.MovementIN
			if delta < 0 {
				kind, delta = entity.MovementOUT, -delta
			}
			if err := movRepo.Create(ctx, newMovement(id, kind, delta, noteEditAdjust, actorID, now)); err != nil {
				return err
			}
		}
		if err := movRepo.Create(ctx, newMovement(id, entity.MovementUpdate, 0, noteEdit, actorID, now)); err != nil {
			return err
		}
		updated, err = productRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// DeleteProduct registra la baja y elimina el producto; su historial cae por cascada.
// Un id inexistente devuelve deleted=0.
func (uc *LedgerUseCase) DeleteProduct(ctx context.Context, id int64, actorID int64) (*dto.DeleteProductResponse, error) {
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var deleted int64
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) error {
		cur, err := productRepo.GetByID(ctx, id)
		if err != nil || cur == nil {
			return err
		}
		if err := movRepo.Create(ctx, newMovement(id, entity.MovementDelete, 0, noteDelete, actorID, uc.now())); err != nil {
			return err
		}
		deleted, err = productRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		uc.log.Info().Int64("product_id", id).Int64("user_id", actorID).Msg("producto eliminado")
	}
	return &dto.DeleteProductResponse{Deleted: deleted}, nil
}

// newMovement arma un asiento; actorID 0 se guarda como NULL.
func newMovement(productID int64, kind string, qty int64, note string, actorID int64, at time.Time) *entity.InventoryMovement {
	m := &entity.InventoryMovement{
		ProductID: productID,
		Kind:      kind,
		Quantity:  qty,
		Note:      note,
		CreatedAt: at,
	}
	if actorID != 0 {
		id := actorID
		m.UserID = &id
	}
	return m
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	r := &dto.ProductResponse{
		ID:    p.ID,
		Code:  p.Code,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
	if !p.CreatedAt.IsZero() {
		r.CreatedAt = p.CreatedAt.Unix()
	}
	if !p.UpdatedAt.IsZero() {
		r.UpdatedAt = p.UpdatedAt.Unix()
	}
	return r
}
