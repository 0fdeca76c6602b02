package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/auth"
	"github.com/jhoicas/usa-store/internal/application/inventory"
	"github.com/jhoicas/usa-store/internal/application/usecase"
	"github.com/jhoicas/usa-store/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	LedgerUC      *inventory.LedgerUseCase
	MaintenanceUC *usecase.MaintenanceUseCase
	JWTSecret     string
	LoginRPS      float64
	LoginBurst    int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Get("/needs-setup", authHandler.NeedsSetup)
	authGroup.Post("/setup", authHandler.Setup)
	authGroup.Post("/login", RateLimitPerIP(deps.LoginRPS, deps.LoginBurst), authHandler.Login)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Post("/logout", authHandler.Logout)

	requireSession := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Users (solo ADMIN)
	users := api.Group("/users", requireSession, adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Remove)

	// Inventario (cualquier sesión)
	inv := api.Group("/inventory", requireSession)
	productHandler := NewProductHandler(deps.LedgerUC)
	inv.Get("/products", productHandler.List)
	inv.Post("/products", productHandler.Create)
	inv.Put("/products/:id", productHandler.Update)
	inv.Delete("/products/:id", productHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Post("/movements", inventoryHandler.AddMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)

	// Mantenimiento (solo ADMIN)
	maint := api.Group("/maintenance", requireSession, adminOnly)
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceUC)
	maint.Post("/backup", maintenanceHandler.Backup)
	maint.Post("/restore", maintenanceHandler.Restore)
}
