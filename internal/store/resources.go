package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/laguz/internal/models"
)

const resourceColumns = "id, title, mime, filename, file_extension, size, created_time, updated_time"

// InsertResource inserts a resource row.
func (s *Store) InsertResource(r *models.Resource) error {
	_, err := s.conn.Exec(`
		INSERT INTO resources (id, title, mime, filename, file_extension, size,
			created_time, updated_time, user_created_time, user_updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Title, r.Mime, r.Filename, r.FileExtension, r.Size,
		r.CreatedTime, r.UpdatedTime, r.CreatedTime, r.UpdatedTime)
	if err != nil {
		return fmt.Errorf("store: insert resource: %w", err)
	}
	return nil
}

// GetResource returns the resource with the given id, or nil when it does
// not exist.
func (s *Store) GetResource(id string) (*models.Resource, error) {
	var r models.Resource
	err := s.conn.QueryRow(`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id).
		Scan(&r.ID, &r.Title, &r.Mime, &r.Filename, &r.FileExtension, &r.Size, &r.CreatedTime, &r.UpdatedTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get resource: %w", err)
	}
	return &r, nil
}

// ResourceExists reports whether a resource row with the given id exists.
func (s *Store) ResourceExists(id string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM resources WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: resource exists: %w", err)
	}
	return true, nil
}

// AssociateNoteResource links a resource to a note. is_associated is written
// as 1 for store compatibility; the core never reads it back.
func (s *Store) AssociateNoteResource(noteID, resourceID string) error {
	_, err := s.conn.Exec(`
		INSERT INTO note_resources (note_id, resource_id, is_associated, last_seen_time)
		VALUES (?, ?, 1, ?)
	`, noteID, resourceID, nowMillis())
	if err != nil {
		return fmt.Errorf("store: associate resource: %w", err)
	}
	return nil
}

// ResourceIDsForNote returns the resource ids associated with a note.
func (s *Store) ResourceIDsForNote(noteID string) ([]string, error) {
	rows, err := s.conn.Query(`SELECT resource_id FROM note_resources WHERE note_id = ?`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: resources for note: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AllResourceIDs returns the set of every resource id in the store.
func (s *Store) AllResourceIDs() (map[string]struct{}, error) {
	rows, err := s.conn.Query(`SELECT id FROM resources`)
	if err != nil {
		return nil, fmt.Errorf("store: all resource ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
