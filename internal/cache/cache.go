// Package cache persists embedding vectors across runs, keyed by model
// identity and exact normalized text. A hit must return the same vector a
// fresh computation would, so rows are scoped to the model that produced
// them and are never rewritten with different data.
package cache

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	model TEXT NOT NULL,
	text  TEXT NOT NULL,
	vec   BLOB NOT NULL,
	PRIMARY KEY (model, text)
);`

// Store is a SQLite-backed embedding cache. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the cached vector for (modelID, text), if present.
func (s *Store) Get(modelID, text string) ([]float32, bool, error) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT vec FROM embeddings WHERE model = ? AND text = ?`,
		modelID, text,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	vec, err := decode(blob)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Put stores a vector for (modelID, text). Existing rows are kept untouched:
// the first write wins, which preserves hit-equals-fresh semantics even if
// two batches race.
func (s *Store) Put(modelID, text string, vec []float32) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO embeddings (model, text, vec) VALUES (?, ?, ?)`,
		modelID, text, encode(vec),
	)
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Len returns the number of cached vectors across all models.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decode(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("cache: corrupt vector blob of %d bytes", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
