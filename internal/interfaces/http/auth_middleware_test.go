package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/usa-store/internal/domain/entity"
	apphttp "github.com/jhoicas/usa-store/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/usa-store/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "usa-store-test"
	testExpMin    = 60
	testSessionID = "5b0c8f7e-0000-4000-8000-000000000001"
)

// activeSessions sesión vigente fija para los tests de middleware.
type activeSessions struct{ id string }

func (s activeSessions) SessionActive(id string) bool { return id == s.id }

// buildTestApp arma una app mínima con AuthMiddleware + RequireRole y un handler que responde 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, activeSessions{id: testSessionID}),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":     true,
				"role":   apphttp.GetRole(c),
				"userId": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, sessionID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{
		SessionID: sessionID,
		UserID:    7,
		Name:      "Test",
		Role:      role,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testSessionID, role)
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "cuerpo: %s", raw)
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, entity.RoleAdmin, body["role"])
	assert.EqualValues(t, 7, body["userId"])
}

func TestRequireRole_WorkerAccedeRutaCompartida(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleWorker)

	resp := doRequest(t, app, tokenForRole(t, entity.RoleWorker))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_WorkerBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, tokenForRole(t, entity.RoleWorker))

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, apphttp.CodeForbidden, body["code"])
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, tokenForRole(t, ""))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingRole, decodeBody(t, resp)["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingToken, decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, "Token abc")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, "Bearer esto.no.es.un.jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_SesionCerrada_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)

	resp := doRequest(t, app, tokenFor(t, "sesion-anterior", entity.RoleAdmin))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeSessionExpired, decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_SinVerificadorDeSesion(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := doRequest(t, app, tokenFor(t, "cualquiera", entity.RoleWorker))

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// JWT
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{
		SessionID: testSessionID, UserID: 42, Name: "Ana", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	sub, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, sub.SessionID)
	assert.Equal(t, int64(42), sub.UserID)
	assert.Equal(t, "Ana", sub.Name)
	assert.Equal(t, entity.RoleAdmin, sub.Role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Subject{SessionID: "s", UserID: 1})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{SessionID: "s", UserID: 1})
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio_RetornaError(t *testing.T) {
	_, err := pkgjwt.Generate("", testIssuer, testExpMin, pkgjwt.Subject{})
	assert.Error(t, err)
}
