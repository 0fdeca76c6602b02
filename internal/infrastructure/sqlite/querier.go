package sqlite

import (
	"context"
	"database/sql"
)

// ExecResult resultado de una sentencia de escritura.
type ExecResult struct {
	Changed    int64
	InsertedID int64
}

// Scanner lo satisface *sql.Rows; QueryMany lo entrega fila por fila.
type Scanner interface {
	Scan(dest ...any) error
}

// Querier contrato común del Gateway y de una transacción; los repositorios trabajan sobre él.
type Querier interface {
	Execute(ctx context.Context, query string, args ...any) (ExecResult, error)
	// QueryOne escanea la primera fila en dest. found=false si no hay filas.
	QueryOne(ctx context.Context, query string, args []any, dest ...any) (found bool, err error)
	// QueryMany llama a scan por cada fila del resultado.
	QueryMany(ctx context.Context, query string, args []any, scan func(Scanner) error) error
}

// conn lo implementan *sql.DB y *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execute(ctx context.Context, c conn, query string, args ...any) (ExecResult, error) {
	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, wrapErr(err, query)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, wrapErr(err, query)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ExecResult{}, wrapErr(err, query)
	}
	return ExecResult{Changed: changed, InsertedID: id}, nil
}

func queryOne(ctx context.Context, c conn, query string, args []any, dest ...any) (bool, error) {
	err := c.QueryRowContext(ctx, query, args...).Scan(dest...)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr(err, query)
	}
	return true, nil
}

func queryMany(ctx context.Context, c conn, query string, args []any, scan func(Scanner) error) error {
	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapErr(err, query)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return wrapErr(err, query)
		}
	}
	return wrapErr(rows.Err(), query)
}

// txQuerier Querier atado a una transacción abierta.
type txQuerier struct {
	tx *sql.Tx
}

func (q *txQuerier) Execute(ctx context.Context, query string, args ...any) (ExecResult, error) {
	return execute(ctx, q.tx, query, args...)
}

func (q *txQuerier) QueryOne(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	return queryOne(ctx, q.tx, query, args, dest...)
}

func (q *txQuerier) QueryMany(ctx context.Context, query string, args []any, scan func(Scanner) error) error {
	return queryMany(ctx, q.tx, query, args, scan)
}
