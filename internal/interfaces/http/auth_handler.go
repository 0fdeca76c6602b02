package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/auth"
	"github.com/jhoicas/usa-store/internal/application/dto"
)

// AuthHandler maneja setup inicial, login, sesión y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// NeedsSetup godoc
// @Summary      ¿Falta crear el primer administrador?
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/needs-setup [get]
func (h *AuthHandler) NeedsSetup(c *fiber.Ctx) error {
	needs, err := h.uc.NeedsInitialSetup(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "needsSetup": needs})
}

// Setup godoc
// @Summary      Crear el primer administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetupRequest  true  "name, username, password"
// @Success      201   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/setup [post]
func (h *AuthHandler) Setup(c *fiber.Ctx) error {
	var in dto.SetupRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	if err := h.uc.CreateInitialAdmin(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKResponse{OK: true})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "session": out.Session, "token": out.Token})
}

// Session godoc
// @Summary      Sesión actual (null si no hay)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "session": h.uc.GetSession()})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.OKResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout()
	return c.JSON(dto.OKResponse{OK: true})
}
