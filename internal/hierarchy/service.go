// Package hierarchy implements CRUD and structural invariants over the
// folder/note tree: creation, partial updates, moves, recursive delete and
// copy, id renames, and order swaps.
//
// Failure policy: structural validation problems (self-parent, duplicate id
// on rename) surface as errors; everything else is best-effort: missing
// rows are skipped silently because a dangling reference is a normal state.
package hierarchy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/store"
)

const (
	defaultNoteTitle = "Untitled"
	copySuffix       = " (Copy)"
)

// NoteUpdate carries the optional fields of a partial note update. Nil
// fields are left untouched.
type NoteUpdate struct {
	Title    *string
	Body     *string
	ParentID *string
}

// FolderUpdate carries the optional fields of a partial folder update.
type FolderUpdate struct {
	Title    *string
	ParentID *string
}

// Service coordinates hierarchy mutations over the store.
type Service struct {
	st  *store.Store
	log *slog.Logger
}

// NewService creates a hierarchy service.
func NewService(st *store.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{st: st, log: log}
}

// CreateNote inserts a new note under the given folder and returns its id.
// Only the parent id format is validated here; existence is the caller's
// concern so the tree view stays authoritative about what exists.
func (s *Service) CreateNote(parentFolderID, title, body string) (string, error) {
	if !nid.Valid(parentFolderID) {
		return "", fmt.Errorf("hierarchy: parent folder id %q: %w", parentFolderID, apperr.ErrValidation)
	}
	if title == "" {
		title = defaultNoteTitle
	}
	now := time.Now().UnixMilli()
	n := &models.Note{
		ID:              nid.New(),
		ParentID:        parentFolderID,
		Title:           title,
		Body:            body,
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
	}
	if err := s.st.InsertNote(n); err != nil {
		return "", err
	}
	s.log.Debug("note created", slog.String("id", n.ID), slog.String("parent", parentFolderID))
	return n.ID, nil
}

// GetNote returns a note by id, or nil when it does not exist.
func (s *Service) GetNote(id string) (*models.Note, error) {
	return s.st.GetNote(id)
}

// GetFolder returns a folder by id, or nil when it does not exist.
func (s *Service) GetFolder(id string) (*models.Folder, error) {
	return s.st.GetFolder(id)
}

// UpdateNote applies a partial update. With no fields set it is a no-op and
// does not bump updated_time.
func (s *Service) UpdateNote(id string, upd NoteUpdate) error {
	if upd.Title == nil && upd.Body == nil && upd.ParentID == nil {
		return nil
	}
	return s.st.UpdateNote(id, upd.Title, upd.Body, upd.ParentID)
}

// MoveNote reparents a note.
func (s *Service) MoveNote(id, newParentID string) error {
	return s.UpdateNote(id, NoteUpdate{ParentID: &newParentID})
}

// DeleteNote hard-deletes a note. Embedded references to it in other notes
// are left in place; resolution tolerates the resulting dangling links.
func (s *Service) DeleteNote(id string) error {
	return s.st.DeleteNote(id)
}

// DeleteNotes hard-deletes a batch of notes.
func (s *Service) DeleteNotes(ids []string) error {
	return s.st.DeleteNotes(ids)
}

// DuplicateNote creates a copy of the note with a fresh id, a "(Copy)"
// title, the same parent, and the same body.
func (s *Service) DuplicateNote(id string) (string, error) {
	src, err := s.st.GetNote(id)
	if err != nil {
		return "", err
	}
	if src == nil {
		return "", fmt.Errorf("hierarchy: duplicate note %q: %w", id, apperr.ErrNotFound)
	}
	now := time.Now().UnixMilli()
	dup := &models.Note{
		ID:              nid.New(),
		ParentID:        src.ParentID,
		Title:           src.Title + copySuffix,
		Body:            src.Body,
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
		Order:           src.Order,
	}
	if err := s.st.InsertNote(dup); err != nil {
		return "", err
	}
	return dup.ID, nil
}

// UpdateNoteID renames a note's primary key and rewrites every embedded
// reference to it across all note bodies.
func (s *Service) UpdateNoteID(oldID, newID string) error {
	if err := s.st.RenameNoteID(oldID, newID); err != nil {
		return err
	}
	s.log.Debug("note id renamed", slog.String("old", oldID), slog.String("new", newID))
	return nil
}

// SwapNoteOrder exchanges the order field of two notes.
func (s *Service) SwapNoteOrder(id1, id2 string) error {
	return s.st.SwapNoteOrder(id1, id2)
}

// CreateFolder inserts a new folder and returns its id. An empty parentID
// places the folder at the root.
func (s *Service) CreateFolder(title, parentID string) (string, error) {
	now := time.Now().UnixMilli()
	f := &models.Folder{
		ID:              nid.New(),
		Title:           title,
		ParentID:        parentID,
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
	}
	if err := s.st.InsertFolder(f); err != nil {
		return "", err
	}
	return f.ID, nil
}

// UpdateFolder applies a partial update. Setting a folder as its own parent
// is rejected; indirect cycles through descendants are not validated here,
// so every parent-chain walk elsewhere guards against revisits.
func (s *Service) UpdateFolder(id string, upd FolderUpdate) error {
	if upd.ParentID != nil && *upd.ParentID == id {
		return fmt.Errorf("hierarchy: folder %q cannot be its own parent: %w", id, apperr.ErrValidation)
	}
	return s.st.UpdateFolder(id, upd.Title, upd.ParentID)
}

// DeleteFolderRecursive depth-first deletes all descendant folders, then the
// folder's own notes, then the folder itself. Missing rows are skipped, so
// concurrent or repeated calls on the same subtree are safe.
func (s *Service) DeleteFolderRecursive(id string) error {
	return s.deleteFolderRec(id, map[string]struct{}{})
}

func (s *Service) deleteFolderRec(id string, seen map[string]struct{}) error {
	if _, ok := seen[id]; ok {
		// Malformed parent chain; stop instead of looping.
		return nil
	}
	seen[id] = struct{}{}

	children, err := s.st.ChildFolders(id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteFolderRec(child.ID, seen); err != nil {
			return err
		}
	}

	noteIDs, err := s.st.NoteIDsInFolder(id)
	if err != nil {
		return err
	}
	if err := s.st.DeleteNotes(noteIDs); err != nil {
		return err
	}
	return s.st.DeleteFolder(id)
}

// CopyFolderRecursive deep-copies a folder subtree. The top copy gets a
// "(Copy)" title; every folder and note is recreated with a fresh id. Note
// bodies are copied verbatim, so embedded references inside copied notes
// still point at the originals. Resources are not duplicated.
//
// An empty newParentID places the copy next to the original.
func (s *Service) CopyFolderRecursive(id, newParentID string) (string, error) {
	src, err := s.st.GetFolder(id)
	if err != nil {
		return "", err
	}
	if src == nil {
		return "", fmt.Errorf("hierarchy: copy folder %q: %w", id, apperr.ErrNotFound)
	}
	if newParentID == "" {
		newParentID = src.ParentID
	}
	return s.copyFolderRec(src, newParentID, copySuffix, map[string]struct{}{})
}

func (s *Service) copyFolderRec(src *models.Folder, destParentID, titleSuffix string, seen map[string]struct{}) (string, error) {
	if _, ok := seen[src.ID]; ok {
		return "", nil
	}
	seen[src.ID] = struct{}{}

	now := time.Now().UnixMilli()
	dst := &models.Folder{
		ID:              nid.New(),
		Title:           src.Title + titleSuffix,
		ParentID:        destParentID,
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
	}
	if err := s.st.InsertFolder(dst); err != nil {
		return "", err
	}

	notes, err := s.st.NotesInFolder(src.ID)
	if err != nil {
		return "", err
	}
	for _, n := range notes {
		cp := n
		cp.ID = nid.New()
		cp.ParentID = dst.ID
		cp.CreatedTime = now
		cp.UpdatedTime = now
		cp.UserCreatedTime = now
		cp.UserUpdatedTime = now
		if err := s.st.InsertNote(&cp); err != nil {
			return "", err
		}
	}

	children, err := s.st.ChildFolders(src.ID)
	if err != nil {
		return "", err
	}
	for _, child := range children {
		c := child
		if _, err := s.copyFolderRec(&c, dst.ID, "", seen); err != nil {
			return "", err
		}
	}
	return dst.ID, nil
}
