// Package jsonfile persists the root document as a single JSON file,
// rewritten wholesale on every mutation.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shoppi/core/internal/adapters/store"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

// backend reads and writes the document file.
type backend struct {
	path string
}

// New opens a flat-file persistence gateway at path, loading the
// existing document or creating a default one when the file does not
// exist.
func New(path string, log *logger.Logger) (*store.Gateway, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return store.Open(&backend{path: path}, log)
}

func (b *backend) Name() string { return "json" }

func (b *backend) Load() (entities.Document, bool, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.Document{}, false, nil
		}
		return entities.Document{}, false, fmt.Errorf("read document: %w", err)
	}

	var doc entities.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return entities.Document{}, false, fmt.Errorf("decode document: %w", err)
	}
	return doc, true, nil
}

func (b *backend) Persist(doc entities.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (b *backend) Close() error { return nil }
