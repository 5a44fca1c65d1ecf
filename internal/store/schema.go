package store

// schemaSQL defines the SQLite schema for the vector database.
// Tables:
//   - collections: one row per named document collection (model, vector width)
//   - documents: per-document text, vector blob and optional cluster label
const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    model TEXT NOT NULL,
    dim INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    text TEXT NOT NULL,
    vector BLOB NOT NULL,
    label INTEGER,
    PRIMARY KEY (collection, idx)
);

CREATE INDEX IF NOT EXISTS idx_documents_label ON documents(collection, label);
`

// initSchema creates the database tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
