package search_test

import (
	"fmt"
	"testing"

	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/testutil"
)

func TestSearchNotesRanksTitleOccurrences(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")

	bodyOnly := testutil.MakeNote(t, st, "Unrelated title", "kayak kayak kayak", folder)
	once := testutil.MakeNote(t, st, "Kayak", "nothing", folder)
	twice := testutil.MakeNote(t, st, "Kayak kayak trip", "nothing", folder)

	refs, err := svc.SearchNotes("kayak")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(refs))
	}
	if refs[0].ID != twice {
		t.Errorf("most title occurrences should rank first, got %s", refs[0].ID)
	}
	if refs[1].ID != once {
		t.Errorf("single title occurrence second, got %s", refs[1].ID)
	}
	if refs[2].ID != bodyOnly {
		t.Errorf("body-only hit last, got %s", refs[2].ID)
	}
}

func TestSearchNotesNoHits(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	testutil.MakeNote(t, st, "Something", "else", folder)

	refs, err := svc.SearchNotes("absent")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no hits, got %+v", refs)
	}
}

func TestAllNotes(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	testutil.MakeNote(t, st, "A", "", folder)
	testutil.MakeNote(t, st, "B", "", folder)

	refs, err := svc.AllNotes()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 notes, got %d", len(refs))
	}
}

func TestPickNotes(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	testutil.MakeNote(t, st, "Meeting notes", "", folder)
	testutil.MakeNote(t, st, "zzz qqq", "", folder)

	refs, err := svc.PickNotes("meeting notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Title != "Meeting notes" {
		t.Errorf("picked = %+v", refs)
	}

	// Empty query returns everything.
	refs, err = svc.PickNotes("")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 notes for empty query, got %d", len(refs))
	}
}

func TestPickNotesEmptyQueryCapped(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	for i := 0; i < 205; i++ {
		testutil.MakeNote(t, st, fmt.Sprintf("Note %03d", i), "", folder)
	}

	refs, err := svc.PickNotes("")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 200 {
		t.Errorf("expected the picker cap of 200, got %d", len(refs))
	}
}

func TestFilterNotes(t *testing.T) {
	st := testutil.TestStore(t)
	svc := search.NewService(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	testutil.MakeNote(t, st, "Grocery list", "", folder)
	testutil.MakeNote(t, st, "Trip plan", "", folder)

	refs, err := svc.FilterNotes("grocery")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Title != "Grocery list" {
		t.Errorf("filtered = %+v", refs)
	}
}
