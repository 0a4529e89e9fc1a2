package booking

import (
	"context"
	"database/sql"
)

// DBExecutor интерфейс исполнителя запросов - ему удовлетворяют *sql.DB,
// *sql.Tx и инструментированная обертка dbmetrics.DB
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
