package output

import (
	"context"

	"moranda/internal/domain"
)

// DocumentStore interface - Output port
// Defines what the application needs from a hierarchical, path-addressed document database.
// Paths are slash separated, e.g. "asides/T01/C02".
type DocumentStore interface {
	// Get returns a snapshot of the whole subtree at path.
	// A snapshot whose Exists() is false means nothing is stored there.
	Get(ctx context.Context, path string) (*domain.Snapshot, error)

	// Update merges fields into the node at path, leaving other fields untouched.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Set replaces the node at path with value.
	Set(ctx context.Context, path string, value any) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
