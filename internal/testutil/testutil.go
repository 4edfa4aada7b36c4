// Package testutil provides shared test helpers for setting up stores and asset dirs.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/store"
)

// TestStore creates a temporary SQLite store that is automatically cleaned up.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	st, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// MakeFolder inserts a folder with a fresh id and returns the id.
func MakeFolder(t *testing.T, st *store.Store, title, parentID string) string {
	t.Helper()
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
	if err := st.InsertFolder(f); err != nil {
		t.Fatal(err)
	}
	return f.ID
}

// MakeNote inserts a note with a fresh id and returns the id.
func MakeNote(t *testing.T, st *store.Store, title, body, parentID string) string {
	t.Helper()
	now := time.Now().UnixMilli()
	n := &models.Note{
		ID:              nid.New(),
		ParentID:        parentID,
		Title:           title,
		Body:            body,
		CreatedTime:     now,
		UpdatedTime:     now,
		UserCreatedTime: now,
		UserUpdatedTime: now,
	}
	if err := st.InsertNote(n); err != nil {
		t.Fatal(err)
	}
	return n.ID
}
