package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jhoicas/usa-store/internal/domain"
)

// maxSQLSummary longitud máxima del resumen de sentencia incluido en errores.
const maxSQLSummary = 160

// summarizeSQL une las líneas de la sentencia y la trunca. Nunca incluye parámetros.
func summarizeSQL(query string) string {
	s := strings.Join(strings.Split(query, "\n"), " ")
	if r := []rune(s); len(r) > maxSQLSummary {
		s = string(r[:maxSQLSummary])
	}
	return s
}

// wrapErr convierte un error del motor en PERSISTENCE_ERROR con la sentencia redactada.
// Errores que ya son de dominio pasan sin cambios.
func wrapErr(err error, query string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewPersistence(err, summarizeSQL(query))
}

// isDuplicateColumn detecta el error de ALTER TABLE ADD COLUMN sobre una columna existente.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}

// isUniqueViolation detecta violaciones de restricción UNIQUE (SQLITE_CONSTRAINT_UNIQUE).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
