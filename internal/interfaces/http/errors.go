package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/domain"
)

// Códigos propios del bridge (autenticación del token y límite de peticiones).
const (
	CodeMissingToken   = "MISSING_TOKEN"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeSessionExpired = "SESSION_EXPIRED"
	CodeMissingRole    = "MISSING_ROLE"
	CodeForbidden      = "FORBIDDEN"
	CodeRateLimited    = "RATE_LIMITED"
)

// fieldInvalidBody cuerpo JSON ilegible o con tipos incorrectos.
const fieldInvalidBody = "INVALID_BODY"

var statusByCode = map[domain.Code]int{
	domain.CodeValidation:         fiber.StatusBadRequest,
	domain.CodePasswordWeak:       fiber.StatusBadRequest,
	domain.CodeInvalidCredentials: fiber.StatusUnauthorized,
	domain.CodeLocked:             fiber.StatusTooManyRequests,
	domain.CodeNotFound:           fiber.StatusNotFound,
	domain.CodeUsernameTaken:      fiber.StatusConflict,
	domain.CodeLastAdmin:          fiber.StatusConflict,
	domain.CodeSetupNotAllowed:    fiber.StatusConflict,
	domain.CodeStockNegative:      fiber.StatusConflict,
	domain.CodePersistence:        fiber.StatusInternalServerError,
	domain.CodeUnexpected:         fiber.StatusInternalServerError,
}

// writeError traduce cualquier error al sobre {ok:false, code, error}.
func writeError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:  string(domain.CodeUnexpected),
			Error: "error inesperado",
		})
	}

	status, ok := statusByCode[de.Code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("code", string(de.Code)).Str("path", c.Path()).Msg("fallo interno")
	}
	if de.Code == domain.CodeLocked && de.RetryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(de.RetryAfter))
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:       string(de.Code),
		Error:      de.Error(),
		Fields:     de.Fields,
		RetryAfter: de.RetryAfter,
	})
}

// writeBridgeError responde con un código propio del bridge (token, rol, límite).
func writeBridgeError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Error: msg})
}

func invalidBody() error {
	return domain.NewValidation(fieldInvalidBody)
}

// pathID lee :id como entero positivo.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidation("ID_REQUIRED")
	}
	return id, nil
}
