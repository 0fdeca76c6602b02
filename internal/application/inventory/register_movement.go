package inventory

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// maxQuantity mayor entero representable sin pérdida en un número JSON.
const maxQuantity = 1 << 53

var defaultNotes = map[string]string{
	entity.MovementIN:     "Entrada",
	entity.MovementOUT:    "Salida",
	entity.MovementAdjust: "Ajuste",
}

// AddStockMovement aplica una entrada, salida o ajuste. El cambio de stock es una sola
// sentencia condicionada; si dejaría stock negativo no se aplica nada.
func (uc *LedgerUseCase) AddStockMovement(ctx context.Context, in dto.StockMovementRequest, actorID int64) (*dto.StockMovementResponse, error) {
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var stock int64
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) error {
		p, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFound(msgProductNotFound)
		}

		qty, err := parseQuantity(in.Quantity)
		if err != nil {
			return err
		}
		kind := strings.ToUpper(strings.TrimSpace(in.Kind))
		var delta int64
		switch kind {
		case entity.MovementIN, entity.MovementAdjust:
			delta = qty
		case entity.MovementOUT:
			delta = -qty
		default:
			return domain.NewValidation(FieldKindInvalid)
		}

		now := uc.now()
		newStock, ok, err := productRepo.AdjustStock(ctx, p.ID, delta, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrStockNegative
		}
		note := in.Note
		if note == "" {
			note = defaultNotes[kind]
		}
		if err := movRepo.Create(ctx, newMovement(p.ID, kind, qty, note, actorID, now)); err != nil {
			return err
		}
		stock = newStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockMovementResponse{ProductID: in.ProductID, Stock: stock}, nil
}

// parseQuantity exige un número finito, positivo y entero.
func parseQuantity(q float64) (int64, error) {
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 0, domain.NewValidation(FieldQtyPositive)
	}
	if q != math.Trunc(q) || q > maxQuantity {
		return 0, domain.NewValidation(FieldQtyInteger)
	}
	return int64(q), nil
}

// ListMovements devuelve el libro del más reciente al más antiguo, con filtros opcionales
// por producto y rango inclusivo de fechas.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.ListMovementsRequest) ([]dto.MovementResponse, error) {
	if err := uc.ensureSchema(ctx); err != nil {
		return nil, err
	}
	page := in.Page()
	filter := repository.MovementFilter{
		ProductID: in.ProductID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if in.From > 0 {
		from := time.Unix(in.From, 0)
		filter.From = &from
	}
	if in.To > 0 {
		to := time.Unix(in.To, 0)
		filter.To = &to
	}

	views, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.MovementResponse{
			ID:          v.ID,
			ProductID:   v.ProductID,
			ProductCode: v.ProductCode,
			ProductName: v.ProductName,
			Kind:        v.Kind,
			Quantity:    v.Quantity,
			Note:        v.Note,
			UserID:      v.UserID,
			CreatedAt:   v.CreatedAt.Unix(),
		})
	}
	return out, nil
}
