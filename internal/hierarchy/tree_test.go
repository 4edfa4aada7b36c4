package hierarchy_test

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/hierarchy"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/store"
	"github.com/starford/laguz/internal/testutil"
)

func insertNote(t *testing.T, st *store.Store, n models.Note) string {
	t.Helper()
	n.ID = nid.New()
	if err := st.InsertNote(&n); err != nil {
		t.Fatal(err)
	}
	return n.ID
}

func findFolder(roots []*hierarchy.TreeFolder, id string) *hierarchy.TreeFolder {
	for _, r := range roots {
		if r.ID == id {
			return r
		}
		if f := findFolder(r.Children, id); f != nil {
			return f
		}
	}
	return nil
}

func TestNoteTreeStructure(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)

	root := testutil.MakeFolder(t, st, "Root", "")
	child := testutil.MakeFolder(t, st, "Child", root)
	testutil.MakeNote(t, st, "inside", "", child)

	roots, err := svc.NoteTree("", "")
	if err != nil {
		t.Fatal(err)
	}

	node := findFolder(roots, root)
	if node == nil {
		t.Fatal("root folder missing from tree")
	}
	if len(node.Children) != 1 || node.Children[0].ID != child {
		t.Fatalf("child folder not attached: %+v", node.Children)
	}
	if len(node.Children[0].Notes) != 1 {
		t.Errorf("note not attached to its folder")
	}
}

func TestNoteTreeDanglingParentBecomesRoot(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)

	orphan := testutil.MakeFolder(t, st, "Orphan", "00000000000000000000000000000000")

	roots, err := svc.NoteTree("", "")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range roots {
		if r.ID == orphan {
			found = true
		}
	}
	if !found {
		t.Error("folder with missing parent was not promoted to a root")
	}
}

func TestNoteTreeRejectsUnknownField(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)

	if _, err := svc.NoteTree("body", "asc"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown field, got %v", err)
	}
	if _, err := svc.NoteTree("title", "sideways"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown direction, got %v", err)
	}
}

func TestNoteTreeSortByTitleWithTieBreaks(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)
	folder := testutil.MakeFolder(t, st, "F", "")

	base := time.Now().UnixMilli()
	// Same title, different updated_time: newer updated wins the tie.
	older := insertNote(t, st, models.Note{
		ParentID: folder, Title: "same",
		CreatedTime: base, UpdatedTime: base,
	})
	newer := insertNote(t, st, models.Note{
		ParentID: folder, Title: "same",
		CreatedTime: base, UpdatedTime: base + 1000,
	})
	first := insertNote(t, st, models.Note{
		ParentID: folder, Title: "AAA",
		CreatedTime: base, UpdatedTime: base,
	})

	roots, err := svc.NoteTree("title", "asc")
	if err != nil {
		t.Fatal(err)
	}
	node := findFolder(roots, folder)
	if node == nil {
		t.Fatal("folder missing")
	}
	if len(node.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(node.Notes))
	}
	if node.Notes[0].ID != first {
		t.Errorf("title sort: first = %s, want %s", node.Notes[0].ID, first)
	}
	if node.Notes[1].ID != newer || node.Notes[2].ID != older {
		t.Errorf("tie-break by updated_time desc violated: %s, %s", node.Notes[1].ID, node.Notes[2].ID)
	}
}

func TestNoteTreeSortByOrderDesc(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)
	folder := testutil.MakeFolder(t, st, "F", "")

	base := time.Now().UnixMilli()
	low := insertNote(t, st, models.Note{
		ParentID: folder, Title: "low", Order: 1,
		CreatedTime: base, UpdatedTime: base,
	})
	high := insertNote(t, st, models.Note{
		ParentID: folder, Title: "high", Order: 2,
		CreatedTime: base, UpdatedTime: base,
	})

	roots, err := svc.NoteTree("order", "desc")
	if err != nil {
		t.Fatal(err)
	}
	node := findFolder(roots, folder)
	if node.Notes[0].ID != high || node.Notes[1].ID != low {
		t.Errorf("order desc violated: %+v", node.Notes)
	}
}

func TestNoteTreeFoldersSortedByTitle(t *testing.T) {
	st := testutil.TestStore(t)
	svc := hierarchy.NewService(st, nil)

	parent := testutil.MakeFolder(t, st, "Parent", "")
	b := testutil.MakeFolder(t, st, "beta", parent)
	a := testutil.MakeFolder(t, st, "Alpha", parent)

	roots, err := svc.NoteTree("", "")
	if err != nil {
		t.Fatal(err)
	}
	node := findFolder(roots, parent)
	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	// Case-insensitive title order regardless of the note sort field.
	if node.Children[0].ID != a || node.Children[1].ID != b {
		t.Errorf("folders not sorted case-insensitively: %s, %s", node.Children[0].Title, node.Children[1].Title)
	}
}
