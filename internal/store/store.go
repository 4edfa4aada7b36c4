// Package store provides the SQLite persistence layer. The schema mirrors a
// widely-used open note-taking app's tables (notes, folders, resources,
// note_resources) so pre-existing databases keep working; the core only
// reads and writes the column subset it needs. Full-text search runs against
// a normalized projection of note title/body, kept in sync by triggers when
// FTS5 is compiled in (build tag sqlite_fts5) and served by a LIKE fallback
// otherwise.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS folders(
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT "",
	created_time INT NOT NULL,
	updated_time INT NOT NULL,
	user_created_time INT NOT NULL DEFAULT 0,
	user_updated_time INT NOT NULL DEFAULT 0,
	encryption_cipher_text TEXT NOT NULL DEFAULT "",
	encryption_applied INT NOT NULL DEFAULT 0,
	parent_id TEXT NOT NULL DEFAULT "",
	is_shared INT NOT NULL DEFAULT 0,
	share_id TEXT NOT NULL DEFAULT "",
	master_key_id TEXT NOT NULL DEFAULT "",
	icon TEXT NOT NULL DEFAULT "",
	user_data TEXT NOT NULL DEFAULT "",
	deleted_time INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS folders_title ON folders(title);
CREATE INDEX IF NOT EXISTS folders_updated_time ON folders(updated_time);

CREATE TABLE IF NOT EXISTS notes(
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL DEFAULT "",
	title TEXT NOT NULL DEFAULT "",
	body TEXT NOT NULL DEFAULT "",
	created_time INT NOT NULL,
	updated_time INT NOT NULL,
	is_conflict INT NOT NULL DEFAULT 0,
	latitude NUMERIC NOT NULL DEFAULT 0,
	longitude NUMERIC NOT NULL DEFAULT 0,
	altitude NUMERIC NOT NULL DEFAULT 0,
	author TEXT NOT NULL DEFAULT "",
	source_url TEXT NOT NULL DEFAULT "",
	is_todo INT NOT NULL DEFAULT 0,
	todo_due INT NOT NULL DEFAULT 0,
	todo_completed INT NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT "",
	source_application TEXT NOT NULL DEFAULT "",
	application_data TEXT NOT NULL DEFAULT "",
	` + "`order`" + ` NUMERIC NOT NULL DEFAULT 0,
	user_created_time INT NOT NULL DEFAULT 0,
	user_updated_time INT NOT NULL DEFAULT 0,
	encryption_cipher_text TEXT NOT NULL DEFAULT "",
	encryption_applied INT NOT NULL DEFAULT 0,
	markup_language INT NOT NULL DEFAULT 1,
	is_shared INT NOT NULL DEFAULT 0,
	share_id TEXT NOT NULL DEFAULT "",
	conflict_original_id TEXT NOT NULL DEFAULT "",
	master_key_id TEXT NOT NULL DEFAULT "",
	user_data TEXT NOT NULL DEFAULT "",
	deleted_time INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS notes_parent_id ON notes(parent_id);
CREATE INDEX IF NOT EXISTS notes_updated_time ON notes(updated_time);

CREATE TABLE IF NOT EXISTS resources(
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT "",
	mime TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT "",
	created_time INT NOT NULL,
	updated_time INT NOT NULL,
	user_created_time INT NOT NULL DEFAULT 0,
	user_updated_time INT NOT NULL DEFAULT 0,
	file_extension TEXT NOT NULL DEFAULT "",
	encryption_cipher_text TEXT NOT NULL DEFAULT "",
	encryption_applied INT NOT NULL DEFAULT 0,
	encryption_blob_encrypted INT NOT NULL DEFAULT 0,
	size INT NOT NULL DEFAULT -1,
	is_shared INT NOT NULL DEFAULT 0,
	share_id TEXT NOT NULL DEFAULT "",
	master_key_id TEXT NOT NULL DEFAULT "",
	user_data TEXT NOT NULL DEFAULT "",
	blob_updated_time INT NOT NULL DEFAULT 0,
	ocr_text TEXT NOT NULL DEFAULT "",
	ocr_details TEXT NOT NULL DEFAULT "",
	ocr_status INT NOT NULL DEFAULT 0,
	ocr_error TEXT NOT NULL DEFAULT ""
);

CREATE TABLE IF NOT EXISTS note_resources(
	id INTEGER PRIMARY KEY,
	note_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	is_associated INT NOT NULL,
	last_seen_time INT NOT NULL
);
CREATE INDEX IF NOT EXISTS note_resources_note_id ON note_resources(note_id);
CREATE INDEX IF NOT EXISTS note_resources_resource_id ON note_resources(resource_id);

CREATE TABLE IF NOT EXISTS notes_normalized(
	id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT "",
	body TEXT NOT NULL DEFAULT "",
	parent_id TEXT NOT NULL DEFAULT "",
	user_created_time INT NOT NULL DEFAULT 0,
	user_updated_time INT NOT NULL DEFAULT 0,
	is_todo INT NOT NULL DEFAULT 0,
	todo_completed INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS notes_normalized_id ON notes_normalized(id);
CREATE INDEX IF NOT EXISTS notes_normalized_parent_id ON notes_normalized(parent_id);
`

// Store wraps a single SQLite connection with row-level operations. All
// calls execute synchronously on the caller's goroutine; every mutating
// method commits before returning.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database, applies the schema, and
// seeds a fresh database with one root folder.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.seed(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: seed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// seed inserts the welcome folder into an empty database so the tree is
// never without a valid note parent.
func (s *Store) seed() error {
	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM folders`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	now := nowMillis()
	return s.InsertFolder(&models.Folder{
		ID:              nid.New(),
		Title:           "Welcome!",
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
	})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
