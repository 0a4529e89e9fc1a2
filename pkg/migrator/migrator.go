// Package migrator обертка над goose для применения SQL-миграций при старте
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migrator применяет миграции из встроенной файловой системы
type Migrator struct {
	db  *sql.DB
	dir string
}

// New создает мигратор. fsys - встроенная FS с каталогом dir внутри.
func New(db *sql.DB, fsys fs.FS, dir string) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("migrator: set goose dialect: %w", err)
	}
	goose.SetBaseFS(fsys)

	return &Migrator{db: db, dir: dir}, nil
}

// Run применяет все pending-миграции
func (m *Migrator) Run(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, m.dir); err != nil {
		return fmt.Errorf("migrator: apply migrations: %w", err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("migrator: get version: %w", err)
	}
	return version, nil
}
