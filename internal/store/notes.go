package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

const noteColumns = "id, parent_id, title, body, created_time, updated_time, " +
	"user_created_time, user_updated_time, is_todo, todo_due, todo_completed, " +
	"latitude, longitude, altitude, `order`"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.ParentID, &n.Title, &n.Body, &n.CreatedTime, &n.UpdatedTime,
		&n.UserCreatedTime, &n.UserUpdatedTime, &n.IsTodo, &n.TodoDue, &n.TodoCompleted,
		&n.Latitude, &n.Longitude, &n.Altitude, &n.Order)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// InsertNote inserts a note row and its normalized projection in one
// transaction.
func (s *Store) InsertNote(n *models.Note) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (id, parent_id, title, body, created_time, updated_time,
			user_created_time, user_updated_time, is_todo, todo_due, todo_completed,
			latitude, longitude, altitude, `+"`order`"+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.ParentID, n.Title, n.Body, n.CreatedTime, n.UpdatedTime,
		n.UserCreatedTime, n.UserUpdatedTime, n.IsTodo, n.TodoDue, n.TodoCompleted,
		n.Latitude, n.Longitude, n.Altitude, n.Order)
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	if err := upsertNormalized(tx, n); err != nil {
		return err
	}
	return tx.Commit()
}

// GetNote returns the note with the given id, or nil when it does not exist.
func (s *Store) GetNote(id string) (*models.Note, error) {
	row := s.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// NoteExists reports whether a note row with the given id exists.
func (s *Store) NoteExists(id string) (bool, error) {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM notes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: note exists: %w", err)
	}
	return true, nil
}

// UpdateNote applies a partial update: only non-nil fields change, and
// updated_time is refreshed. A missing row is silently skipped.
func (s *Store) UpdateNote(id string, title, body, parentID *string) error {
	if title == nil && body == nil && parentID == nil {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	sets := []string{"updated_time = ?"}
	args := []any{nowMillis()}
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *body)
	}
	if parentID != nil {
		sets = append(sets, "parent_id = ?")
		args = append(args, *parentID)
	}
	args = append(args, id)

	if _, err := tx.Exec(`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}

	n, err := scanNote(tx.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("store: reload note: %w", err)
	}
	if err := upsertNormalized(tx, n); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNote removes a note, its normalized projection, and its resource
// associations. Missing rows are not an error.
func (s *Store) DeleteNote(id string) error {
	return s.DeleteNotes([]string{id})
}

// DeleteNotes removes a batch of notes in a single transaction.
func (s *Store) DeleteNotes(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("store: delete note: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM notes_normalized WHERE id = ?`, id); err != nil {
			return fmt.Errorf("store: delete normalized: %w", err)
		}
		_, _ = tx.Exec(`DELETE FROM note_resources WHERE note_id = ?`, id)
	}
	return tx.Commit()
}

// AllNotes returns every note row.
func (s *Store) AllNotes() ([]models.Note, error) {
	rows, err := s.conn.Query(`SELECT ` + noteColumns + ` FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: all notes: %w", err)
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

// AllNoteRefs returns {id,title} for every note in base query order.
func (s *Store) AllNoteRefs() ([]models.NoteRef, error) {
	rows, err := s.conn.Query(`SELECT id, title FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: all note refs: %w", err)
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

// NoteTitlesByIDs returns a map of id to title for the given ids. Ids with
// no matching note row are absent from the map.
func (s *Store) NoteTitlesByIDs(ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.conn.Query(`SELECT id, title FROM notes WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: titles by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		out[id] = title
	}
	return out, rows.Err()
}

// NotesContaining returns every note whose body contains the literal
// substring anywhere, in base query order. Used for backlink scans, which
// are intentionally not restricted to link syntax.
func (s *Store) NotesContaining(substr string) ([]models.NoteRef, error) {
	rows, err := s.conn.Query(`SELECT id, title FROM notes WHERE instr(body, ?) > 0`, substr)
	if err != nil {
		return nil, fmt.Errorf("store: notes containing: %w", err)
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

// RenameNoteID changes a note's primary key and, in the same transaction,
// repoints its resource associations and rewrites both embedded reference
// forms (:/{old} and [[{old}]]) in every note body. This is the one
// operation that actively maintains embedded-link integrity.
func (s *Store) RenameNoteID(oldID, newID string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var one int
	err = tx.QueryRow(`SELECT 1 FROM notes WHERE id = ?`, newID).Scan(&one)
	if err == nil {
		return fmt.Errorf("store: rename note id to %q: %w", newID, apperr.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: rename note id: %w", err)
	}

	res, err := tx.Exec(`UPDATE notes SET id = ? WHERE id = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("store: rename note id: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("store: rename note id %q: %w", oldID, apperr.ErrNotFound)
	}

	if _, err := tx.Exec(`UPDATE note_resources SET note_id = ? WHERE note_id = ?`, newID, oldID); err != nil {
		return fmt.Errorf("store: rename note associations: %w", err)
	}

	inlineOld, inlineNew := ":/"+oldID, ":/"+newID
	wikiOld, wikiNew := "[["+oldID+"]]", "[["+newID+"]]"
	if _, err := tx.Exec(`
		UPDATE notes
		SET body = replace(replace(body, ?, ?), ?, ?)
		WHERE instr(body, ?) > 0
	`, inlineOld, inlineNew, wikiOld, wikiNew, oldID); err != nil {
		return fmt.Errorf("store: rewrite note bodies: %w", err)
	}

	// Keep the normalized projection (and through it the search index)
	// aligned with the rewritten rows.
	if _, err := tx.Exec(`UPDATE notes_normalized SET id = ? WHERE id = ?`, newID, oldID); err != nil {
		return fmt.Errorf("store: rename normalized: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE notes_normalized
		SET body = replace(replace(body, ?, ?), ?, ?)
		WHERE instr(body, ?) > 0
	`, inlineOld, inlineNew, wikiOld, wikiNew, oldID); err != nil {
		return fmt.Errorf("store: rewrite normalized bodies: %w", err)
	}

	return tx.Commit()
}

// SwapNoteOrder exchanges the order field between two notes atomically.
// Both notes must exist.
func (s *Store) SwapNoteOrder(id1, id2 string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	orderOf := func(id string) (float64, error) {
		var v float64
		err := tx.QueryRow("SELECT `order` FROM notes WHERE id = ?", id).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("store: swap order, note %q: %w", id, apperr.ErrNotFound)
		}
		return v, err
	}

	o1, err := orderOf(id1)
	if err != nil {
		return err
	}
	o2, err := orderOf(id2)
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE notes SET `order` = ? WHERE id = ?", o2, id1); err != nil {
		return fmt.Errorf("store: swap order: %w", err)
	}
	if _, err := tx.Exec("UPDATE notes SET `order` = ? WHERE id = ?", o1, id2); err != nil {
		return fmt.Errorf("store: swap order: %w", err)
	}
	return tx.Commit()
}

// upsertNormalized replaces a note's row in the normalized search
// projection. Delete-then-insert keeps the FTS sync triggers simple.
func upsertNormalized(tx *sql.Tx, n *models.Note) error {
	if _, err := tx.Exec(`DELETE FROM notes_normalized WHERE id = ?`, n.ID); err != nil {
		return fmt.Errorf("store: clear normalized: %w", err)
	}
	_, err := tx.Exec(`
		INSERT INTO notes_normalized (id, title, body, parent_id,
			user_created_time, user_updated_time, is_todo, todo_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Body, n.ParentID, n.UserCreatedTime, n.UserUpdatedTime, n.IsTodo, n.TodoCompleted)
	if err != nil {
		return fmt.Errorf("store: upsert normalized: %w", err)
	}
	return nil
}
