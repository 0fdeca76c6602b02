package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDest_NombreConFecha(t *testing.T) {
	at := time.Date(2025, 1, 31, 14, 5, 9, 0, time.Local)
	assert.Equal(t, filepath.Join("respaldos", "usa_store-20250131-140509.sqlite"),
		defaultDest(filepath.Join("data", "usa_store.sqlite"), at))
}

func TestRun_RespaldoYRestauracion(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "store.sqlite"))
	dest := filepath.Join(dir, "respaldos", "copia.sqlite")

	require.NoError(t, run(dest, ""))
	_, err := os.Stat(dest)
	require.NoError(t, err)

	require.NoError(t, run("", dest))
}

func TestRun_RestaurarInexistenteFalla(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "store.sqlite"))

	err := run("", filepath.Join(dir, "no-existe.sqlite"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restaurar")
}
