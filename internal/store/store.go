// Package store provides SQLite-backed persistence for vectorized document
// collections. The database lives in .vectra/vectra.db and keeps each
// collection's documents, vectors and cluster labels together.
package store

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named collection does not exist.
var ErrNotFound = errors.New("collection not found")

// Store manages the .vectra/vectra.db SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Collection describes a stored collection.
type Collection struct {
	Name      string
	Model     string
	Dim       int
	Count     int
	CreatedAt string
}

// Open opens or creates the vector database in the specified .vectra
// directory. It initializes the schema if the database is new.
func Open(vectraDir string) (*Store, error) {
	dbPath := filepath.Join(vectraDir, "vectra.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// SaveCollection stores a collection, replacing any previous collection of
// the same name. Documents and vectors must align one to one.
func (s *Store) SaveCollection(name, model string, docs []string, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents but %d vectors", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return errors.New("refusing to save an empty collection")
	}
	dim := len(vectors[0])

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM documents WHERE collection = ?", name); err != nil {
		return fmt.Errorf("clear old documents: %w", err)
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO collections (name, model, dim, created_at) VALUES (?, ?, ?, ?)",
		name, model, dim, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save collection %s: %w", name, err)
	}

	stmt, err := tx.Prepare("INSERT INTO documents (collection, idx, text, vector) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare document insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		if len(vectors[i]) != dim {
			return fmt.Errorf("vector %d has width %d, expected %d", i, len(vectors[i]), dim)
		}
		if _, err := stmt.Exec(name, i, doc, encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("save document %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadCollection retrieves a collection's documents and vectors in their
// original order.
func (s *Store) LoadCollection(name string) ([]string, [][]float32, error) {
	var dim int
	err := s.db.QueryRow("SELECT dim FROM collections WHERE name = ?", name).Scan(&dim)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load collection %s: %w", name, err)
	}

	rows, err := s.db.Query(
		"SELECT text, vector FROM documents WHERE collection = ? ORDER BY idx", name)
	if err != nil {
		return nil, nil, fmt.Errorf("load documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	var vectors [][]float32
	for rows.Next() {
		var text string
		var blob []byte
		if err := rows.Scan(&text, &blob); err != nil {
			return nil, nil, fmt.Errorf("scan document: %w", err)
		}
		vec, err := decodeVector(blob, dim)
		if err != nil {
			return nil, nil, fmt.Errorf("document %d: %w", len(docs), err)
		}
		docs = append(docs, text)
		vectors = append(vectors, vec)
	}
	return docs, vectors, rows.Err()
}

// SaveLabels attaches cluster labels to a stored collection, one per
// document in order.
func (s *Store) SaveLabels(name string, labels []int) error {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM documents WHERE collection = ?", name).Scan(&count)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if len(labels) != count {
		return fmt.Errorf("got %d labels for %d documents", len(labels), count)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin label save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE documents SET label = ? WHERE collection = ? AND idx = ?")
	if err != nil {
		return fmt.Errorf("prepare label update: %w", err)
	}
	defer stmt.Close()

	for i, l := range labels {
		if _, err := stmt.Exec(l, name, i); err != nil {
			return fmt.Errorf("save label %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadLabels retrieves a collection's cluster labels. Returns ErrNotFound
// when the collection does not exist or has not been labeled.
func (s *Store) LoadLabels(name string) ([]int, error) {
	rows, err := s.db.Query(
		"SELECT label FROM documents WHERE collection = ? ORDER BY idx", name)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	defer rows.Close()

	var labels []int
	for rows.Next() {
		var l sql.NullInt64
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		if !l.Valid {
			return nil, fmt.Errorf("%w: collection %s has unlabeled documents", ErrNotFound, name)
		}
		labels = append(labels, int(l.Int64))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if labels == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return labels, nil
}

// ListCollections returns every stored collection, newest first.
func (s *Store) ListCollections() ([]Collection, error) {
	rows, err := s.db.Query(`
		SELECT c.name, c.model, c.dim, c.created_at, COUNT(d.idx)
		FROM collections c
		LEFT JOIN documents d ON d.collection = c.name
		GROUP BY c.name
		ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.Name, &c.Model, &c.Dim, &c.CreatedAt, &c.Count); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCollection removes a collection and its documents. Documents are
// deleted explicitly rather than through the cascade: foreign key
// enforcement is per-connection in SQLite and the pool hands out fresh ones.
func (s *Store) DeleteCollection(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM documents WHERE collection = ?", name); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	res, err := tx.Exec("DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tx.Commit()
}

// encodeVector packs a float32 vector into a little-endian blob.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian blob into a float32 vector of the
// expected width.
func decodeVector(blob []byte, dim int) ([]float32, error) {
	if len(blob) != 4*dim {
		return nil, fmt.Errorf("vector blob has %d bytes, expected %d", len(blob), 4*dim)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
