package links_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/laguz/internal/links"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/testutil"
)

func TestExtractRefs(t *testing.T) {
	body := "start :/aaa middle [[bbb]] again :/aaa then :/ccc and [[aaa]] end [[]]"
	got := links.ExtractRefs(body)
	// Protocol form only, distinct, first-appearance order. Wiki-form
	// mentions stay out of this path.
	want := []string{"aaa", "ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractRefs = %v, want %v", got, want)
	}
}

func TestExtractRefsNone(t *testing.T) {
	if got := links.ExtractRefs("no links here, just [brackets] and http://x"); len(got) != 0 {
		t.Errorf("expected no refs, got %v", got)
	}
}

func TestExtractWikiTargets(t *testing.T) {
	body := "[[one]] text [[two words]] and [[one]] and [[]]"
	got := links.ExtractWikiTargets(body)
	want := []string{"one", "two words"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractWikiTargets = %v, want %v", got, want)
	}
}

func TestResolvePrecedence(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	folderID := testutil.MakeFolder(t, st, "F", "")
	noteID := testutil.MakeNote(t, st, "N", "", folderID)

	now := time.Now().UnixMilli()
	resID := nid.New()
	err := st.InsertResource(&models.Resource{
		ID: resID, Title: "img", Mime: "image/png",
		CreatedTime: now, UpdatedTime: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		id   string
		want models.Kind
	}{
		{noteID, models.KindNote},
		{folderID, models.KindFolder},
		{resID, models.KindResource},
		{"00000000000000000000000000000000", models.KindNone},
	}
	for _, c := range cases {
		kind, err := r.Resolve(c.id)
		if err != nil {
			t.Fatal(err)
		}
		if kind != c.want {
			t.Errorf("Resolve(%s) = %v, want %v", c.id, kind, c.want)
		}
	}
}

func TestForwardLinksOrderAndDangling(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)
	folderID := testutil.MakeFolder(t, st, "F", "")

	b := testutil.MakeNote(t, st, "B", "", folderID)
	a := testutil.MakeNote(t, st, "A", "", folderID)
	src := testutil.MakeNote(t, st, "Src",
		"first :/"+b+" then :/"+a+" then dangling :/ffffffffffffffffffffffffffffffff", folderID)

	refs, err := r.ForwardLinks(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 resolved links, got %d: %+v", len(refs), refs)
	}
	// First-appearance order in the body, dangling reference dropped.
	if refs[0].ID != b || refs[1].ID != a {
		t.Errorf("order = %s, %s", refs[0].ID, refs[1].ID)
	}
}

func TestForwardLinksIgnoreWikiForm(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)
	folderID := testutil.MakeFolder(t, st, "F", "")

	target := testutil.MakeNote(t, st, "Target", "", folderID)
	src := testutil.MakeNote(t, st, "Src", "rendered mention [["+target+"]] only", folderID)

	refs, err := r.ForwardLinks(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("wiki-only mention must not list as a forward link, got %+v", refs)
	}
}

func TestForwardLinksMissingSource(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	refs, err := r.ForwardLinks("00000000000000000000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("expected empty result for missing source, got %v", refs)
	}
}

func TestBacklinksLooseScan(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)
	folderID := testutil.MakeFolder(t, st, "F", "")

	target := testutil.MakeNote(t, st, "T", "", folderID)
	loose := testutil.MakeNote(t, st, "Loose", "bare id "+target+" in prose", folderID)

	refs, err := r.Backlinks(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].ID != loose {
		t.Errorf("loose mention not found: %+v", refs)
	}
}

func TestRelativeLabel(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	work := testutil.MakeFolder(t, st, "Work", "")
	projA := testutil.MakeFolder(t, st, "ProjA", work)
	projB := testutil.MakeFolder(t, st, "ProjB", work)

	current := testutil.MakeNote(t, st, "Here", "", projA)
	target := testutil.MakeNote(t, st, "There", "", projB)

	label, err := r.RelativeLabel(current, target)
	if err != nil {
		t.Fatal(err)
	}
	if label != "../ProjB/There" {
		t.Errorf("label = %q, want ../ProjB/There", label)
	}
}

func TestRelativeLabelSameFolder(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)
	folder := testutil.MakeFolder(t, st, "F", "")

	current := testutil.MakeNote(t, st, "A", "", folder)
	target := testutil.MakeNote(t, st, "B", "", folder)

	label, err := r.RelativeLabel(current, target)
	if err != nil {
		t.Fatal(err)
	}
	if label != "B" {
		t.Errorf("label = %q, want B", label)
	}
}

func TestRelativeLabelNonNoteFallsBack(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)
	folder := testutil.MakeFolder(t, st, "F", "")
	current := testutil.MakeNote(t, st, "A", "", folder)

	label, err := r.RelativeLabel(current, "not-a-note")
	if err != nil {
		t.Fatal(err)
	}
	if label != "not-a-note" {
		t.Errorf("label = %q, want raw target", label)
	}
}

func TestFolderPath(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	root := testutil.MakeFolder(t, st, "Root", "")
	mid := testutil.MakeFolder(t, st, "Mid", root)
	leaf := testutil.MakeFolder(t, st, "Leaf", mid)

	path, err := r.FolderPath(leaf)
	if err != nil {
		t.Fatal(err)
	}
	if path != "Root/Mid/Leaf" {
		t.Errorf("path = %q", path)
	}
}

func TestFolderPathStopsAtMissingParent(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	orphan := testutil.MakeFolder(t, st, "Orphan", "00000000000000000000000000000000")

	path, err := r.FolderPath(orphan)
	if err != nil {
		t.Fatal(err)
	}
	if path != "Orphan" {
		t.Errorf("path = %q, want Orphan", path)
	}
}

func TestFolderPathMissingFolder(t *testing.T) {
	st := testutil.TestStore(t)
	r := links.NewResolver(st)

	if _, err := r.FolderPath("00000000000000000000000000000000"); err == nil {
		t.Error("expected error for missing folder")
	}
}
