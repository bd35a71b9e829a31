// Package migrations embebe las migraciones SQL (goose) del esquema del ledger.
package migrations

import "embed"

// FS migraciones en formato goose (-- +goose Up / Down).
//
//go:embed *.sql
var FS embed.FS
