// Package links extracts embedded item references from note bodies and
// resolves them against the store.
//
// Two reference forms are recognized: the protocol form ":/id" and the
// wiki form "[[target]]". A reference may point at a note, a folder, or a
// resource; when an id exists in more than one table the note wins, then
// the folder, then the resource. References to items that no longer exist
// are a normal state and never an error.
package links

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/store"
)

var (
	protoRefRe = regexp.MustCompile(`:/([A-Za-z0-9]+)`)
	wikiRefRe  = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
)

// ExtractRefs returns the distinct protocol-form ":/id" targets found in
// body, in order of first appearance. The wiki form is a rendering concern
// with its own extraction path, ExtractWikiTargets; it never feeds the
// forward-link listing.
func ExtractRefs(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range protoRefRe.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// ExtractWikiTargets returns the distinct wiki-form targets in body, in
// order of first appearance. Empty "[[]]" targets are suppressed.
func ExtractWikiTargets(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range wikiRefRe.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// Resolver answers questions about embedded references.
type Resolver struct {
	st *store.Store
}

// NewResolver creates a resolver over the store.
func NewResolver(st *store.Store) *Resolver {
	return &Resolver{st: st}
}

// Resolve maps an id to the kind of item it names. Notes shadow folders,
// folders shadow resources. An unknown id resolves to KindNone.
func (r *Resolver) Resolve(id string) (models.Kind, error) {
	if ok, err := r.st.NoteExists(id); err != nil {
		return models.KindNone, err
	} else if ok {
		return models.KindNote, nil
	}
	if ok, err := r.st.FolderExists(id); err != nil {
		return models.KindNone, err
	} else if ok {
		return models.KindFolder, nil
	}
	if ok, err := r.st.ResourceExists(id); err != nil {
		return models.KindNone, err
	} else if ok {
		return models.KindResource, nil
	}
	return models.KindNone, nil
}

// Backlinks returns the notes whose body mentions the given id anywhere,
// in any syntactic position. The scan is a plain substring match, so ids
// pasted outside link syntax count too.
func (r *Resolver) Backlinks(id string) ([]models.NoteRef, error) {
	return r.st.NotesContaining(id)
}

// ForwardLinks returns the notes referenced via the protocol form from the
// given note's body, in order of first appearance. Wiki-form mentions do
// not count as forward links. References that do not name an existing note
// are dropped. A missing source note yields an empty result.
func (r *Resolver) ForwardLinks(id string) ([]models.NoteRef, error) {
	note, err := r.st.GetNote(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}
	refs := ExtractRefs(note.Body)
	if len(refs) == 0 {
		return nil, nil
	}
	titles, err := r.st.NoteTitlesByIDs(refs)
	if err != nil {
		return nil, err
	}
	out := make([]models.NoteRef, 0, len(refs))
	for _, ref := range refs {
		if title, ok := titles[ref]; ok {
			out = append(out, models.NoteRef{ID: ref, Title: title})
		}
	}
	return out, nil
}

// RelativeLabel renders a human-readable label for target as seen from the
// note currentID, in filesystem style: shared folder prefix stripped, one
// ".." per level up, then the remaining folder chain and the target title
// joined with "/". Non-note targets fall back to the raw target text.
func (r *Resolver) RelativeLabel(currentID, target string) (string, error) {
	targetNote, err := r.st.GetNote(target)
	if err != nil {
		return "", err
	}
	if targetNote == nil {
		return target, nil
	}
	current, err := r.st.GetNote(currentID)
	if err != nil {
		return "", err
	}

	targetChain, err := r.folderChain(targetNote.ParentID)
	if err != nil {
		return "", err
	}
	var currentChain []string
	if current != nil {
		currentChain, err = r.folderChain(current.ParentID)
		if err != nil {
			return "", err
		}
	}

	common := 0
	for common < len(targetChain) && common < len(currentChain) && targetChain[common] == currentChain[common] {
		common++
	}

	parts := make([]string, 0, len(currentChain)-common+len(targetChain)-common+1)
	for i := common; i < len(currentChain); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetChain[common:]...)
	parts = append(parts, targetNote.Title)
	return strings.Join(parts, "/"), nil
}

// FolderPath returns the root-to-folder title chain joined with "/". The
// walk stops at a missing parent or a revisited id, so malformed chains
// still terminate.
func (r *Resolver) FolderPath(id string) (string, error) {
	f, err := r.st.GetFolder(id)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", fmt.Errorf("links: folder path: folder %q does not exist", id)
	}
	chain, err := r.folderChain(id)
	if err != nil {
		return "", err
	}
	return strings.Join(chain, "/"), nil
}

// folderChain walks parent links upward from the given folder id and
// returns the title chain root first. A missing folder ends the walk.
func (r *Resolver) folderChain(id string) ([]string, error) {
	var rev []string
	seen := make(map[string]struct{})
	for id != "" {
		if _, ok := seen[id]; ok {
			break
		}
		seen[id] = struct{}{}
		f, err := r.st.GetFolder(id)
		if err != nil {
			return nil, err
		}
		if f == nil {
			break
		}
		rev = append(rev, f.Title)
		id = f.ParentID
	}
	out := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return out, nil
}
