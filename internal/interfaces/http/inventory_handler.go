package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/inventory"
)

// InventoryHandler maneja los movimientos de stock y el libro.
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// AddMovement godoc
// @Summary      Registrar movimiento de inventario (IN, OUT, ADJUST)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "productId, kind, quantity, note"
// @Success      201   {object}  dto.DataResponse[dto.StockMovementResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "Stock insuficiente"
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) AddMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	out, err := h.uc.AddStockMovement(c.UserContext(), in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewData(out))
}

// ListMovements godoc
// @Summary      Libro de movimientos (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  query  int  false  "Filtrar por producto"
// @Param        from       query  int  false  "Desde (epoch s, inclusivo)"
// @Param        to         query  int  false  "Hasta (epoch s, inclusivo)"
// @Param        limit      query  int  false  "Límite (default 100)"
// @Param        offset     query  int  false  "Desplazamiento"
// @Success      200        {object}  dto.DataResponse[[]dto.MovementResponse]
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	list, err := h.uc.ListMovements(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(list))
}
