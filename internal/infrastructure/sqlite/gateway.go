package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/pkg/config"
)

var _ Querier = (*Gateway)(nil)

// Gateway es el punto único de acceso al almacén SQLite.
// El handle se abre de forma perezosa en el primer uso; las llamadas concurrentes
// que llegan antes de que termine la apertura comparten un único intento.
type Gateway struct {
	cfg config.DBConfig
	log zerolog.Logger

	mu         sync.RWMutex
	db         *sql.DB
	generation uint64

	open singleflight.Group
}

// NewGateway construye el gateway sin abrir la base de datos.
func NewGateway(cfg config.DBConfig, log zerolog.Logger) *Gateway {
	return &Gateway{cfg: cfg, log: log.With().Str("component", "sqlite").Logger()}
}

// Path ruta del archivo de base de datos.
func (g *Gateway) Path() string { return g.cfg.Path }

// Generation cuenta las aperturas del handle; cambia tras cada backup/restore.
func (g *Gateway) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

func (g *Gateway) handle(ctx context.Context) (*sql.DB, error) {
	g.mu.RLock()
	db := g.db
	g.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := g.open.Do("open", func() (any, error) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if err := g.openLocked(context.WithoutCancel(ctx)); err != nil {
			return nil, err
		}
		return g.db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

// openLocked abre el archivo, activa claves foráneas y aplica el esquema base. Requiere g.mu.
func (g *Gateway) openLocked(ctx context.Context) error {
	if g.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(g.cfg.Path), 0o755); err != nil {
		return domain.NewPersistence(fmt.Errorf("crear directorio de datos: %w", err), "")
	}
	db, err := sql.Open("sqlite", g.cfg.DSN())
	if err != nil {
		return domain.NewPersistence(err, "")
	}
	// Un solo archivo y una sola conexión: las llamadas quedan serializadas.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return wrapErr(err, "PRAGMA foreign_keys = ON")
	}
	if err := applyBaseSchema(ctx, db); err != nil {
		_ = db.Close()
		return domain.NewPersistence(err, "")
	}
	g.db = db
	g.generation++
	g.log.Info().Str("path", g.cfg.Path).Uint64("generation", g.generation).Msg("base de datos abierta")
	return nil
}

func (g *Gateway) closeLocked() error {
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	if err != nil {
		return domain.NewPersistence(err, "")
	}
	return nil
}

// Execute ejecuta INSERT/UPDATE/DELETE/DDL y devuelve filas afectadas e id insertado.
func (g *Gateway) Execute(ctx context.Context, query string, args ...any) (ExecResult, error) {
	db, err := g.handle(ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return execute(ctx, db, query, args...)
}

// QueryOne ejecuta una consulta y escanea la primera fila.
func (g *Gateway) QueryOne(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	db, err := g.handle(ctx)
	if err != nil {
		return false, err
	}
	return queryOne(ctx, db, query, args, dest...)
}

// QueryMany ejecuta una consulta y recorre todas las filas.
func (g *Gateway) QueryMany(ctx context.Context, query string, args []any, scan func(Scanner) error) error {
	db, err := g.handle(ctx)
	if err != nil {
		return err
	}
	return queryMany(ctx, db, query, args, scan)
}

// Tx ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Dentro de fn solo debe usarse el Querier recibido.
func (g *Gateway) Tx(ctx context.Context, fn func(q Querier) error) error {
	db, err := g.handle(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(fmt.Errorf("begin transaction: %w", err), "BEGIN")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&txQuerier{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr(fmt.Errorf("commit transaction: %w", err), "COMMIT")
	}
	return nil
}

// Close cierra el handle; el siguiente uso lo vuelve a abrir.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closeLocked()
}

// Backup cierra el handle, copia el archivo a dest y vuelve a abrir.
// No protege contra consultas concurrentes más allá del cambio de handle.
func (g *Gateway) Backup(ctx context.Context, dest string) error {
	if strings.TrimSpace(dest) == "" {
		return domain.NewValidation("DEST_REQUIRED")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	// Garantiza que el archivo exista antes de copiarlo.
	if err := g.openLocked(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return domain.NewPersistence(fmt.Errorf("crear directorio destino: %w", err), "")
	}
	if err := g.closeLocked(); err != nil {
		return err
	}
	copyErr := copyFile(g.cfg.Path, dest)
	if err := g.openLocked(ctx); err != nil {
		return err
	}
	if copyErr != nil {
		return domain.NewPersistence(fmt.Errorf("copiar respaldo: %w", copyErr), "")
	}
	g.log.Info().Str("dest", dest).Msg("respaldo creado")
	return nil
}

// Restore reemplaza el archivo vivo por src y vuelve a abrir.
func (g *Gateway) Restore(ctx context.Context, src string) error {
	if strings.TrimSpace(src) == "" {
		return domain.NewValidation("SRC_REQUIRED")
	}
	if _, err := os.Stat(src); err != nil {
		return domain.NewNotFound("SRC_NOT_FOUND")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(g.cfg.Path), 0o755); err != nil {
		return domain.NewPersistence(fmt.Errorf("crear directorio de datos: %w", err), "")
	}
	if err := g.closeLocked(); err != nil {
		return err
	}
	copyErr := copyFile(src, g.cfg.Path)
	if err := g.openLocked(ctx); err != nil {
		return err
	}
	if copyErr != nil {
		return domain.NewPersistence(fmt.Errorf("restaurar respaldo: %w", copyErr), "")
	}
	g.log.Info().Str("src", src).Msg("respaldo restaurado")
	return nil
}

// copyFile escribe en un temporal junto al destino y lo renombra al final.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
