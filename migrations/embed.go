// Package migrations встраивает SQL-миграции схемы в бинарник
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir каталог миграций внутри встроенной FS
const Dir = "."
