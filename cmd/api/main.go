package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/usa-store/internal/application/auth"
	"github.com/jhoicas/usa-store/internal/application/inventory"
	"github.com/jhoicas/usa-store/internal/application/usecase"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/usa-store/internal/interfaces/http"
	"github.com/jhoicas/usa-store/pkg/config"
	"github.com/jhoicas/usa-store/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Path).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		log.Warn().Msg("JWT_SECRET vacío: se generó uno aleatorio, los tokens no sobreviven a un reinicio")
	}

	// La base se abre en el primer uso.
	gw := sqlite.NewGateway(cfg.DB, log.Zerolog())
	defer func() {
		if err := gw.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar base de datos")
		}
	}()

	userRepo := sqlite.NewUserRepository(gw)
	productRepo := sqlite.NewProductRepository(gw)
	movementRepo := sqlite.NewInventoryMovementRepository(gw)
	txRunner := sqlite.NewTxRunner(gw)

	authUC := auth.NewAuthUseCase(
		userRepo, txRunner,
		auth.NewMemorySessionStore(), auth.NewMemoryLockoutStore(),
		auth.Config{
			BcryptCost:        cfg.Security.BcryptCost,
			MaxFailedAttempts: cfg.Security.MaxFailedAttempts,
			LockoutDuration:   cfg.Security.LockoutDuration,
			JWT: auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			},
		},
		log.Zerolog(),
	)
	userUC := usecase.NewUserUseCase(userRepo, txRunner, cfg.Security.BcryptCost, log.Zerolog())
	ledgerUC := inventory.NewLedgerUseCase(productRepo, movementRepo, txRunner, gw, log.Zerolog())
	maintenanceUC := usecase.NewMaintenanceUseCase(gw, authUC, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "USA Store API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		LedgerUC:      ledgerUC,
		MaintenanceUC: maintenanceUC,
		JWTSecret:     cfg.JWT.Secret,
		LoginRPS:      cfg.Security.LoginRPS,
		LoginBurst:    cfg.Security.LoginBurst,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generar secreto JWT: " + err.Error())
	}
	return hex.EncodeToString(b)
}
