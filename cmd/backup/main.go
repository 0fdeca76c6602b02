// backup copia o restaura el archivo SQLite de la tienda sin levantar el servidor HTTP.
//
// Uso:
//
//	go run ./cmd/backup -dest respaldos/usa_store-2025-01-31.sqlite
//	go run ./cmd/backup -restore respaldos/usa_store-2025-01-31.sqlite
//
// La ruta de la base se toma de DB_PATH (o de .env / config), igual que el servidor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/usecase"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite"
	"github.com/jhoicas/usa-store/pkg/config"
	"github.com/jhoicas/usa-store/pkg/logger"
)

// noSessions el proceso CLI no mantiene sesiones ni bloqueos que reiniciar.
type noSessions struct{}

func (noSessions) ResetState() {}

func main() {
	dest := flag.String("dest", "", "archivo destino del respaldo (por defecto respaldos/<base>-<fecha>.sqlite)")
	restore := flag.String("restore", "", "archivo de respaldo a restaurar sobre la base viva")
	flag.Parse()

	if err := run(*dest, *restore); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run hace el respaldo o la restauración; el gateway se cierra antes de volver.
func run(dest, restore string) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	gw := sqlite.NewGateway(cfg.DB, log.Zerolog())
	defer func() {
		if cerr := gw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar base de datos: %w", cerr)
		}
	}()
	uc := usecase.NewMaintenanceUseCase(gw, noSessions{}, log.Zerolog())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if restore != "" {
		if err := uc.Restore(ctx, dto.RestoreRequest{Src: restore}); err != nil {
			return fmt.Errorf("restaurar: %w", err)
		}
		fmt.Printf("Base restaurada desde %s\n", restore)
		return nil
	}

	if dest == "" {
		dest = defaultDest(cfg.DB.Path, time.Now())
	}
	res, err := uc.Backup(ctx, dto.BackupRequest{Dest: dest})
	if err != nil {
		return fmt.Errorf("respaldar: %w", err)
	}
	fmt.Printf("Respaldo escrito en %s\n", res.Path)
	return nil
}

// defaultDest respaldos/<nombre>-<AAAAMMDD-hhmmss><ext>.
func defaultDest(dbPath string, at time.Time) string {
	base := filepath.Base(dbPath)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), at.Format("20060102-150405"), ext)
	return filepath.Join("respaldos", name)
}
