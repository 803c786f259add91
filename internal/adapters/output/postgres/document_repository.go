package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"moranda/internal/domain"
	"moranda/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Compile-time check to ensure DocumentRepository implements DocumentStore interface
var _ output.DocumentStore = (*DocumentRepository)(nil)

const upsertDocument = `INSERT INTO documents (path, data, updated_at) VALUES (?, ?, ?) ` +
	`ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

// DocumentRepository struct - Secondary/Driven adapter for PostgreSQL.
// Each row holds the JSON tree of one (collection, team) partition, e.g. "users/T01";
// deeper paths are resolved inside that tree.
type DocumentRepository struct {
	dbGorm *gorm.DB
}

// NewDocumentRepository func - Creates new PostgreSQL document repository
func NewDocumentRepository(dbGorm *gorm.DB) *DocumentRepository {
	return &DocumentRepository{
		dbGorm: dbGorm,
	}
}

// Get func - Reads the subtree at path
func (p *DocumentRepository) Get(ctx context.Context, path string) (*domain.Snapshot, error) {
	segments, err := domain.SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(segments) == 1 {
		return p.getCollection(ctx, path, segments[0])
	}

	key, rest, _ := domain.PartitionKey(segments)
	var docs []domain.Document
	if err := p.dbGorm.WithContext(ctx).Where("path = ?", key).Find(&docs).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if len(docs) == 0 {
		return &domain.Snapshot{Path: path}, nil
	}
	tree, err := decodeTree(docs[0])
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Path: path, Value: domain.Lookup(tree, rest)}, nil
}

// getCollection assembles every partition of a collection, keyed by team
func (p *DocumentRepository) getCollection(ctx context.Context, path, collection string) (*domain.Snapshot, error) {
	var docs []domain.Document
	if err := p.dbGorm.WithContext(ctx).Where("path LIKE ?", collection+"/%").Find(&docs).Error; err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	if len(docs) == 0 {
		return &domain.Snapshot{Path: path}, nil
	}
	value := make(map[string]any, len(docs))
	for _, doc := range docs {
		tree, err := decodeTree(doc)
		if err != nil {
			return nil, err
		}
		value[strings.TrimPrefix(doc.Path, collection+"/")] = tree
	}
	return &domain.Snapshot{Path: path, Value: value}, nil
}

// Update func - Merges fields into the node at path
func (p *DocumentRepository) Update(ctx context.Context, path string, fields map[string]any) error {
	normalized, err := domain.Normalize(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	values, _ := normalized.(map[string]any)
	return p.mutate(ctx, path, func(tree map[string]any, rest []string) map[string]any {
		return domain.MergeAt(tree, rest, values)
	})
}

// Set func - Replaces the node at path
func (p *DocumentRepository) Set(ctx context.Context, path string, value any) error {
	normalized, err := domain.Normalize(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return p.mutate(ctx, path, func(tree map[string]any, rest []string) map[string]any {
		return domain.ReplaceAt(tree, rest, normalized)
	})
}

// Ping func
func (p *DocumentRepository) Ping(ctx context.Context) error {
	sqlDB, err := p.dbGorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// mutate locks the partition row, applies change to its tree and writes it back
func (p *DocumentRepository) mutate(ctx context.Context, path string, change func(tree map[string]any, rest []string) map[string]any) error {
	segments, err := domain.SplitPath(path)
	if err != nil {
		return err
	}
	key, rest, err := domain.PartitionKey(segments)
	if err != nil {
		return err
	}

	return p.dbGorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var docs []domain.Document
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("path = ?", key).Find(&docs).Error; err != nil {
			logrus.Errorln(err)
			return err
		}
		var tree map[string]any
		if len(docs) > 0 {
			if tree, err = decodeTree(docs[0]); err != nil {
				return err
			}
		}

		tree = change(tree, rest)
		if tree == nil {
			tree = map[string]any{}
		}
		data, err := json.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := tx.Exec(upsertDocument, key, string(data), time.Now()).Error; err != nil {
			logrus.Errorln(err)
			return err
		}
		return nil
	})
}

func decodeTree(doc domain.Document) (map[string]any, error) {
	var tree map[string]any
	if doc.Data == "" {
		return tree, nil
	}
	if err := json.Unmarshal([]byte(doc.Data), &tree); err != nil {
		return nil, fmt.Errorf("decode %s: %w", doc.Path, err)
	}
	return tree, nil
}
