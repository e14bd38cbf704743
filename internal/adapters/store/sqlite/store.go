// Package sqlite persists the root document into an embedded SQLite
// database, snapshotting each top-level collection as a JSON blob in a
// single state table. Operation semantics match the jsonfile backend;
// SQLite adds a transactional overwrite instead of a file rewrite.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/shoppi/core/internal/adapters/store"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

// Bucket names, one per top-level document collection.
const (
	bucketSections = "sections"
	bucketProducts = "products"
	bucketMainCart = "mainCart"
	bucketCarts    = "carts"
)

// backend snapshots the document into the state table.
type backend struct {
	db *sqlx.DB
}

// New opens a SQLite-backed persistence gateway at path, creating the
// schema and a default document when none exists.
func New(path string, log *logger.Logger) (*store.Gateway, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The migrate command manages the same schema; this keeps the store
	// usable without running it.
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}

	return store.Open(&backend{db: db}, log)
}

func (b *backend) Name() string { return "sqlite" }

func (b *backend) Load() (entities.Document, bool, error) {
	rows, err := b.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return entities.Document{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc := entities.Document{}
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return entities.Document{}, false, fmt.Errorf("scan state: %w", err)
		}
		found = true

		switch bucket {
		case bucketSections:
			err = json.Unmarshal(payload, &doc.Sections)
		case bucketProducts:
			err = json.Unmarshal(payload, &doc.Products)
		case bucketMainCart:
			err = json.Unmarshal(payload, &doc.MainCart)
		case bucketCarts:
			err = json.Unmarshal(payload, &doc.Carts)
		}
		if err != nil {
			return entities.Document{}, false, fmt.Errorf("decode bucket %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return entities.Document{}, false, fmt.Errorf("iterate state: %w", err)
	}

	return doc, found, nil
}

func (b *backend) Persist(doc entities.Document) (retErr error) {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				retErr = fmt.Errorf("%w (rollback: %v)", retErr, rbErr)
			}
		}
	}()

	buckets := []struct {
		name  string
		value interface{}
	}{
		{bucketSections, doc.Sections},
		{bucketProducts, doc.Products},
		{bucketMainCart, doc.MainCart},
		{bucketCarts, doc.Carts},
	}

	for _, bucket := range buckets {
		payload, err := json.Marshal(bucket.value)
		if err != nil {
			return fmt.Errorf("encode bucket %s: %w", bucket.name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO state (bucket, payload) VALUES (?, ?)
			 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			bucket.name, payload,
		); err != nil {
			return fmt.Errorf("upsert bucket %s: %w", bucket.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (b *backend) Close() error {
	return b.db.Close()
}
