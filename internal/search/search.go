// Package search provides full-text lookup with occurrence re-ranking, an
// n-gram prefilter for cheap candidate narrowing, and fuzzy title ranking.
package search

import (
	"sort"
	"strings"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/store"
)

// Service runs note searches over the store.
type Service struct {
	st *store.Store
}

// NewService creates a search service.
func NewService(st *store.Store) *Service {
	return &Service{st: st}
}

// SearchNotes runs a full-text query and re-ranks the hits so that titles
// containing the query text more often come first. The underlying engine's
// order is kept among equal scores.
func (s *Service) SearchNotes(query string) ([]models.NoteRef, error) {
	refs, err := s.st.SearchNotes(query)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	sort.SliceStable(refs, func(i, j int) bool {
		return occurrenceScore(refs[i].Title, q) > occurrenceScore(refs[j].Title, q)
	})
	return refs, nil
}

// occurrenceScore counts how much of the title is covered by occurrences of
// the query, as total matched characters.
func occurrenceScore(title, lowerQuery string) int {
	if lowerQuery == "" {
		return 0
	}
	lt := strings.ToLower(title)
	return len(lt) - len(strings.ReplaceAll(lt, lowerQuery, ""))
}

// AllNotes returns every note as an id/title pair, for client-side ranking.
func (s *Service) AllNotes() ([]models.NoteRef, error) {
	return s.st.AllNoteRefs()
}

// PickNotes fuzzy-ranks all note titles against the query. An empty query
// returns the base order, still bounded by the picker's result cap.
func (s *Service) PickNotes(query string) ([]models.NoteRef, error) {
	refs, err := s.st.AllNoteRefs()
	if err != nil {
		return nil, err
	}
	if query == "" {
		if len(refs) > rankLimit {
			refs = refs[:rankLimit]
		}
		return refs, nil
	}
	return RankNotes(query, refs), nil
}

// FilterNotes keeps notes whose title passes the n-gram filter.
func (s *Service) FilterNotes(filter string) ([]models.NoteRef, error) {
	refs, err := s.st.AllNoteRefs()
	if err != nil {
		return nil, err
	}
	kept := refs[:0]
	for _, ref := range refs {
		if MatchesFilter(filter, ref.Title, DefaultNgramSize, true) {
			kept = append(kept, ref)
		}
	}
	return kept, nil
}
