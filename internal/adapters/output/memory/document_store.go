package memory

import (
	"context"
	"fmt"
	"sync"

	"moranda/internal/domain"
	"moranda/internal/ports/output"
)

// Compile-time check to ensure MemoryDocumentStore implements DocumentStore interface
var _ output.DocumentStore = (*MemoryDocumentStore)(nil)

// MemoryDocumentStore struct - Output adapter keeping the whole document tree in memory.
// Values are stored in their JSON tree form, so reads see the same shapes the
// postgres adapter returns.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	root map[string]any
}

// NewMemoryDocumentStore creates an empty in-memory document store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		root: make(map[string]any),
	}
}

// Get returns a copy of the subtree at path
func (m *MemoryDocumentStore) Get(ctx context.Context, path string) (*domain.Snapshot, error) {
	segments, err := domain.SplitPath(path)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, err := domain.Normalize(domain.Lookup(m.root, segments))
	if err != nil {
		return nil, fmt.Errorf("copy %s: %w", path, err)
	}
	return &domain.Snapshot{Path: path, Value: value}, nil
}

// Update merges fields into the node at path
func (m *MemoryDocumentStore) Update(ctx context.Context, path string, fields map[string]any) error {
	segments, err := domain.SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := domain.Normalize(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	values, _ := normalized.(map[string]any)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.setRoot(domain.MergeAt(m.root, segments, values))
	return nil
}

// Set replaces the node at path
func (m *MemoryDocumentStore) Set(ctx context.Context, path string, value any) error {
	segments, err := domain.SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := domain.Normalize(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.setRoot(domain.ReplaceAt(m.root, segments, normalized))
	return nil
}

// Ping always succeeds
func (m *MemoryDocumentStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryDocumentStore) setRoot(root map[string]any) {
	if root == nil {
		root = make(map[string]any)
	}
	m.root = root
}
