package storage

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema creates tables used by Postgres. It is idempotent.
//
//go:embed schema.sql
var Schema string

// Migrate creates missing tables.
func (p Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("can't create schema: %w", err)
	}

	return nil
}
