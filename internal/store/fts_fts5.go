//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/starford/laguz/internal/models"
)

// initFTS creates the external-content FTS5 table over notes_normalized and
// the triggers that keep it in sync with inserts, updates, and deletes.
func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			id UNINDEXED,
			title,
			body,
			content='notes_normalized',
			content_rowid='rowid',
			tokenize = 'unicode61 remove_diacritics 2'
		);

		CREATE TRIGGER IF NOT EXISTS notes_normalized_ai AFTER INSERT ON notes_normalized BEGIN
			INSERT INTO notes_fts(rowid, id, title, body)
			VALUES (new.rowid, new.id, new.title, new.body);
		END;

		CREATE TRIGGER IF NOT EXISTS notes_normalized_ad AFTER DELETE ON notes_normalized BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, id, title, body)
			VALUES ('delete', old.rowid, old.id, old.title, old.body);
		END;

		CREATE TRIGGER IF NOT EXISTS notes_normalized_au AFTER UPDATE ON notes_normalized BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, id, title, body)
			VALUES ('delete', old.rowid, old.id, old.title, old.body);
			INSERT INTO notes_fts(rowid, id, title, body)
			VALUES (new.rowid, new.id, new.title, new.body);
		END;
	`)
	return err
}

// SearchNotes runs an FTS5 MATCH over the normalized projection and returns
// {id,title} pairs in index rank order. Relevance re-ranking happens in the
// search service.
func (s *Store) SearchNotes(query string) ([]models.NoteRef, error) {
	rows, err := s.conn.Query(`
		SELECT id, title
		FROM notes_fts
		WHERE notes_fts MATCH ?
		ORDER BY rank
	`, query)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []models.NoteRef
	for rows.Next() {
		var r models.NoteRef
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
