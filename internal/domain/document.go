package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Snapshot is the value found at a document path at read time.
// A nil Value means nothing is stored at the path.
type Snapshot struct {
	Path  string
	Value any
}

// Exists reports whether anything is stored at the snapshot's path
func (s *Snapshot) Exists() bool {
	if s == nil || s.Value == nil {
		return false
	}
	if node, ok := s.Value.(map[string]any); ok {
		return len(node) > 0
	}
	return true
}

// Decode copies the snapshot value into out, which must be a pointer
func (s *Snapshot) Decode(out any) error {
	if !s.Exists() {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(s.Value); err != nil {
		return fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return nil
}

// Children returns the child snapshots ordered by key
func (s *Snapshot) Children() []Snapshot {
	node, ok := s.valueMap()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	children := make([]Snapshot, 0, len(keys))
	for _, key := range keys {
		children = append(children, Snapshot{Path: s.Path + "/" + key, Value: node[key]})
	}
	return children
}

// Key returns the last segment of the snapshot path
func (s *Snapshot) Key() string {
	idx := strings.LastIndex(s.Path, "/")
	return s.Path[idx+1:]
}

func (s *Snapshot) valueMap() (map[string]any, bool) {
	if !s.Exists() {
		return nil, false
	}
	node, ok := s.Value.(map[string]any)
	return node, ok
}

// SplitPath splits a slash separated document path into its segments
func SplitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	segments := strings.Split(trimmed, "/")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// PartitionKey splits path segments into the (collection, team) partition and the rest
func PartitionKey(segments []string) (string, []string, error) {
	if len(segments) < 2 {
		return "", nil, fmt.Errorf("%w: %q is not inside a partition", ErrInvalidPath, strings.Join(segments, "/"))
	}
	return segments[0] + "/" + segments[1], segments[2:], nil
}

// Normalize converts a value to its JSON tree form (map[string]any, []any, string, float64, bool)
func Normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup walks segments from root and returns the value found, or nil
func Lookup(root any, segments []string) any {
	node := root
	for _, segment := range segments {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return node
}

// MergeAt merges fields into the node at segments, creating intermediate nodes.
// A nil field value deletes the child. The (possibly new) root is returned.
func MergeAt(root any, segments []string, fields map[string]any) map[string]any {
	return setAt(root, segments, func(existing any) any {
		node, ok := existing.(map[string]any)
		if !ok {
			node = make(map[string]any, len(fields))
		}
		for key, value := range fields {
			if value == nil {
				delete(node, key)
				continue
			}
			node[key] = value
		}
		if len(node) == 0 {
			return nil
		}
		return node
	})
}

// ReplaceAt replaces the node at segments with value. The (possibly new) root is returned.
func ReplaceAt(root any, segments []string, value any) map[string]any {
	return setAt(root, segments, func(any) any { return value })
}

func setAt(root any, segments []string, apply func(existing any) any) map[string]any {
	if len(segments) == 0 {
		next, _ := apply(root).(map[string]any)
		return next
	}
	node, ok := root.(map[string]any)
	if !ok {
		node = make(map[string]any)
	}
	var next any
	if len(segments) == 1 {
		next = apply(node[segments[0]])
	} else if child := setAt(node[segments[0]], segments[1:], apply); child != nil {
		next = child
	}
	if next == nil {
		delete(node, segments[0])
	} else {
		node[segments[0]] = next
	}
	// empty parents are pruned
	if len(node) == 0 {
		return nil
	}
	return node
}

// Document struct - one JSON tree per (collection, team) partition
type Document struct {
	Path      string     `gorm:"type:varchar(255);primary_key;"`
	Data      string     `gorm:"type:jsonb;not null;"`
	UpdatedAt *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (d *Document) TableName() string {
	return "documents"
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) {
	if db == nil {
		panic("An error when connect database")
	}

	logrus.Info("Migrate database ...")
	err := db.AutoMigrate(&Document{})
	if err != nil {
		panic(err)
	}
}
