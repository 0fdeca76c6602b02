package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/pkg/jwt"
)

// Locals keys para los datos de sesión en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalSessionID = "session_id"
)

// sessionChecker lo implementa *auth.AuthUseCase; un token solo vale mientras su sesión sea la vigente.
type sessionChecker interface {
	SessionActive(sessionID string) bool
}

// AuthMiddleware valida el Bearer Token JWT y carga usuario, rol y sesión en c.Locals.
// Si sessions no es nil, rechaza tokens de sesiones cerradas (logout, restauración).
func AuthMiddleware(jwtSecret string, sessions sessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeMissingToken, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeMissingToken, "token vacío")
		}
		sub, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		if sessions != nil && !sessions.SessionActive(sub.SessionID) {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeSessionExpired, "la sesión ya no está activa")
		}
		c.Locals(LocalUserID, sub.UserID)
		c.Locals(LocalRole, sub.Role)
		c.Locals(LocalSessionID, sub.SessionID)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return writeBridgeError(c, fiber.StatusUnauthorized, CodeMissingRole, "el token no incluye rol")
		}
		if _, ok := allowed[role]; !ok {
			return writeBridgeError(c, fiber.StatusForbidden, CodeForbidden, "rol sin permiso para esta operación")
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (0 si no hay sesión).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
