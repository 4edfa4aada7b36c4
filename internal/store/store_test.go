package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/testutil"
)

func TestOpenSeedsWelcomeFolder(t *testing.T) {
	st := testutil.TestStore(t)

	folders, err := st.AllFolders()
	if err != nil {
		t.Fatal(err)
	}
	if len(folders) != 1 {
		t.Fatalf("expected 1 seeded folder, got %d", len(folders))
	}
	if folders[0].Title != "Welcome!" {
		t.Errorf("seed folder title = %q", folders[0].Title)
	}
	if folders[0].ParentID != "" {
		t.Errorf("seed folder should be a root, parent = %q", folders[0].ParentID)
	}
}

func TestInsertGetNote(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	id := testutil.MakeNote(t, st, "First", "hello world", folderID)

	n, err := st.GetNote(id)
	if err != nil {
		t.Fatal(err)
	}
	if n == nil {
		t.Fatal("note not found after insert")
	}
	if n.Title != "First" || n.Body != "hello world" || n.ParentID != folderID {
		t.Errorf("unexpected note row: %+v", n)
	}
}

func TestGetNoteMissingIsNil(t *testing.T) {
	st := testutil.TestStore(t)

	n, err := st.GetNote("00000000000000000000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	if n != nil {
		t.Errorf("expected nil for missing note, got %+v", n)
	}
}

func TestUpdateNotePartial(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	id := testutil.MakeNote(t, st, "Old", "body", folderID)

	title := "New"
	if err := st.UpdateNote(id, &title, nil, nil); err != nil {
		t.Fatal(err)
	}

	n, err := st.GetNote(id)
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "New" {
		t.Errorf("title = %q, want New", n.Title)
	}
	if n.Body != "body" {
		t.Errorf("body changed on title-only update: %q", n.Body)
	}
	if n.UpdatedTime < n.CreatedTime {
		t.Error("updated_time not refreshed")
	}
}

func TestUpdateNoteMissingIsSilent(t *testing.T) {
	st := testutil.TestStore(t)
	title := "x"
	if err := st.UpdateNote("00000000000000000000000000000000", &title, nil, nil); err != nil {
		t.Errorf("update of missing note should be silent, got %v", err)
	}
}

func TestDeleteNotes(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	a := testutil.MakeNote(t, st, "A", "", folderID)
	b := testutil.MakeNote(t, st, "B", "", folderID)

	if err := st.DeleteNotes([]string{a, b, "00000000000000000000000000000000"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{a, b} {
		if n, _ := st.GetNote(id); n != nil {
			t.Errorf("note %s still present after delete", id)
		}
	}
}

func TestNotesContaining(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	target := testutil.MakeNote(t, st, "Target", "", folderID)

	linked := testutil.MakeNote(t, st, "Linked", "see :/"+target+" for details", folderID)
	loose := testutil.MakeNote(t, st, "Loose", "raw mention "+target+" outside link syntax", folderID)
	testutil.MakeNote(t, st, "Unrelated", "nothing here", folderID)

	refs, err := st.NotesContaining(target)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]bool)
	for _, r := range refs {
		got[r.ID] = true
	}
	if !got[linked] || !got[loose] {
		t.Errorf("substring scan missed a mention: %v", got)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 mentions, got %d", len(refs))
	}
}

func TestRenameNoteIDRewritesBodies(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	target := testutil.MakeNote(t, st, "Target", "", folderID)
	referrer := testutil.MakeNote(t, st, "Referrer",
		"inline :/"+target+" and wiki [["+target+"]] forms", folderID)

	newID := "ffffffffffffffffffffffffffffffff"
	if err := st.RenameNoteID(target, newID); err != nil {
		t.Fatal(err)
	}

	if n, _ := st.GetNote(target); n != nil {
		t.Error("old id still resolves")
	}
	n, err := st.GetNote(newID)
	if err != nil || n == nil {
		t.Fatalf("new id missing: %v", err)
	}

	ref, _ := st.GetNote(referrer)
	want := "inline :/" + newID + " and wiki [[" + newID + "]] forms"
	if ref.Body != want {
		t.Errorf("body not rewritten:\n got %q\nwant %q", ref.Body, want)
	}
}

func TestRenameNoteIDConflict(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	a := testutil.MakeNote(t, st, "A", "", folderID)
	b := testutil.MakeNote(t, st, "B", "", folderID)

	err := st.RenameNoteID(a, b)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRenameNoteIDMissing(t *testing.T) {
	st := testutil.TestStore(t)
	err := st.RenameNoteID("00000000000000000000000000000000", "ffffffffffffffffffffffffffffffff")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSwapNoteOrder(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")

	now := time.Now().UnixMilli()
	a, b := nid.New(), nid.New()
	for id, order := range map[string]float64{a: 1, b: 2} {
		err := st.InsertNote(&models.Note{
			ID: id, ParentID: folderID, Title: "n",
			CreatedTime: now, UpdatedTime: now,
			UserCreatedTime: now, UserUpdatedTime: now,
			Order: order,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := st.SwapNoteOrder(a, b); err != nil {
		t.Fatal(err)
	}
	na, _ := st.GetNote(a)
	nb, _ := st.GetNote(b)
	if na.Order != 2 || nb.Order != 1 {
		t.Errorf("orders not exchanged: a=%v b=%v", na.Order, nb.Order)
	}
}

func TestSwapNoteOrderMissingLeavesBothUntouched(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	a := testutil.MakeNote(t, st, "A", "", folderID)

	err := st.SwapNoteOrder(a, "00000000000000000000000000000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	na, _ := st.GetNote(a)
	if na.Order != 0 {
		t.Errorf("order changed despite failed swap: %v", na.Order)
	}
}

func TestSearchNotes(t *testing.T) {
	st := testutil.TestStore(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	hit := testutil.MakeNote(t, st, "Kayak trip", "planning the kayak route", folderID)
	testutil.MakeNote(t, st, "Groceries", "milk and eggs", folderID)

	refs, err := st.SearchNotes("kayak")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].ID != hit {
		t.Errorf("unexpected search result: %+v", refs)
	}
}
