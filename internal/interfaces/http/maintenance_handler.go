package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/usecase"
)

// MaintenanceHandler respaldo y restauración (solo ADMIN).
type MaintenanceHandler struct {
	uc *usecase.MaintenanceUseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(uc *usecase.MaintenanceUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{uc: uc}
}

// Backup godoc
// @Summary      Respaldar la base de datos
// @Tags         maintenance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BackupRequest  true  "dest"
// @Success      200   {object}  dto.DataResponse[dto.BackupResponse]
// @Router       /api/maintenance/backup [post]
func (h *MaintenanceHandler) Backup(c *fiber.Ctx) error {
	var in dto.BackupRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	out, err := h.uc.Backup(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(out))
}

// Restore godoc
// @Summary      Restaurar la base de datos desde un respaldo
// @Tags         maintenance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreRequest  true  "src"
// @Success      200   {object}  dto.OKResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/maintenance/restore [post]
func (h *MaintenanceHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	if err := h.uc.Restore(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}
