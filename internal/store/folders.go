package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/models"
)

const folderColumns = "id, title, parent_id, created_time, updated_time, user_created_time, user_updated_time"

func scanFolder(row rowScanner) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(&f.ID, &f.Title, &f.ParentID, &f.CreatedTime, &f.UpdatedTime,
		&f.UserCreatedTime, &f.UserUpdatedTime)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// InsertFolder inserts a folder row.
func (s *Store) InsertFolder(f *models.Folder) error {
	_, err := s.conn.Exec(`
		INSERT INTO folders (id, title, parent_id, created_time, updated_time,
			user_created_time, user_updated_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Title, f.ParentID, f.CreatedTime, f.UpdatedTime, f.UserCreatedTime, f.UserUpdatedTime)
	if err != nil {
		return fmt.Errorf("store: insert folder: %w", err)
	}
	return nil
}

// GetFolder returns the folder with the given id, or nil when it does not
// exist.
func (s *Store) GetFolder(id string) (*models.Folder, error) {
	row := s.conn.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = ?`, id)
	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get folder: %w", err)
	}
	return f, nil
}

// FolderExists reports whether a folder row with the given id exists.
func (s *Store) FolderExists(id string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM folders WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: folder exists: %w", err)
	}
	return true, nil
}

// AllFolders returns every folder row.
func (s *Store) AllFolders() ([]models.Folder, error) {
	rows, err := s.conn.Query(`SELECT ` + folderColumns + ` FROM folders`)
	if err != nil {
		return nil, fmt.Errorf("store: all folders: %w", err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// UpdateFolder applies a partial update: only non-nil fields change, and
// updated_time is refreshed. A missing row is silently skipped.
func (s *Store) UpdateFolder(id string, title, parentID *string) error {
	if title == nil && parentID == nil {
		return nil
	}
	sets := []string{"updated_time = ?"}
	args := []any{nowMillis()}
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if parentID != nil {
		sets = append(sets, "parent_id = ?")
		args = append(args, *parentID)
	}
	args = append(args, id)

	if _, err := s.conn.Exec(`UPDATE folders SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("store: update folder: %w", err)
	}
	return nil
}

// DeleteFolder removes a single folder row. Missing rows are not an error,
// so concurrent recursive deletes stay idempotent.
func (s *Store) DeleteFolder(id string) error {
	if _, err := s.conn.Exec(`DELETE FROM folders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete folder: %w", err)
	}
	return nil
}

// ChildFolders returns the folders whose parent_id equals the given id.
func (s *Store) ChildFolders(parentID string) ([]models.Folder, error) {
	rows, err := s.conn.Query(`SELECT `+folderColumns+` FROM folders WHERE parent_id = ?`, parentID)
	if err != nil {
		return nil, fmt.Errorf("store: child folders: %w", err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// NotesInFolder returns the notes directly contained in the given folder.
func (s *Store) NotesInFolder(folderID string) ([]models.Note, error) {
	rows, err := s.conn.Query(`SELECT `+noteColumns+` FROM notes WHERE parent_id = ?`, folderID)
	if err != nil {
		return nil, fmt.Errorf("store: notes in folder: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// NoteIDsInFolder returns the ids of the notes directly contained in the
// given folder.
func (s *Store) NoteIDsInFolder(folderID string) ([]string, error) {
	rows, err := s.conn.Query(`SELECT id FROM notes WHERE parent_id = ?`, folderID)
	if err != nil {
		return nil, fmt.Errorf("store: note ids in folder: %w", err)
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
