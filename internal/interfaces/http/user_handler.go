package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/usecase"
)

// UserHandler administración de usuarios (solo ADMIN).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse[[]dto.UserResponse]
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListUsers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(list))
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "name, username, role, password"
// @Success      201   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	if err := h.uc.CreateUser(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKResponse{OK: true})
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "name, role, password (opcionales)"
// @Success      200   {object}  dto.ChangedResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	in.ID = id
	out, err := h.uc.UpdateUser(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "changed": out.Changed})
}

// Remove godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Success      200  {object}  dto.ChangedResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Remove(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RemoveUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "changed": out.Changed})
}
