// Package sqlitetest arma gateways SQLite sobre archivos temporales para tests.
package sqlitetest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite"
	"github.com/jhoicas/usa-store/pkg/config"
)

// Config devuelve una configuración de BD dentro de t.TempDir().
func Config(t testing.TB) config.DBConfig {
	t.Helper()
	return config.DBConfig{
		Path:        filepath.Join(t.TempDir(), "data", "store.sqlite"),
		BusyTimeout: 2 * time.Second,
	}
}

// New construye un gateway aislado que se cierra al terminar el test.
func New(t testing.TB) *sqlite.Gateway {
	t.Helper()
	gw := sqlite.NewGateway(Config(t), zerolog.Nop())
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}
