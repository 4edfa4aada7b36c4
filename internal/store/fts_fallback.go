//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/starford/laguz/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search falls back to LIKE over the notes table.
	return nil
}

// SearchNotes performs a LIKE-based search (fallback when FTS5 is not
// compiled in). Relevance re-ranking happens in the search service.
func (s *Store) SearchNotes(query string) ([]models.NoteRef, error) {
	like := "%" + query + "%"
	rows, err := s.conn.Query(`
		SELECT id, title
		FROM notes
		WHERE title LIKE ? OR body LIKE ?
	`, like, like)
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
