package store

import (
	"context"

	"taxakey/internal/key"
)

// Store persists a snapshot of a parsed key for ad-hoc inspection. Match
// results are never stored; the exported copy is read-only reference data.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	ExportKey(ctx context.Context, k *key.Key) error
}
