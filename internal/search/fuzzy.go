package search

import (
	"sort"
	"strings"

	"github.com/starford/laguz/internal/models"
)

const (
	rankThreshold = 50
	rankLimit     = 200
)

// RankNotes fuzzy-ranks notes against the query by title similarity. Notes
// scoring at or below the threshold are dropped and the result is capped.
// Ties keep their input order.
func RankNotes(query string, notes []models.NoteRef) []models.NoteRef {
	type scored struct {
		ref   models.NoteRef
		score int
	}
	kept := make([]scored, 0, len(notes))
	for _, n := range notes {
		if sc := TokenSetRatio(query, n.Title); sc > rankThreshold {
			kept = append(kept, scored{ref: n, score: sc})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if len(kept) > rankLimit {
		kept = kept[:rankLimit]
	}
	out := make([]models.NoteRef, len(kept))
	for i, s := range kept {
		out[i] = s.ref
	}
	return out
}

// TokenSetRatio scores the similarity of two strings from 0 to 100 using
// the token-set method: both strings are split into sorted unique lowercase
// tokens, and the best of three comparisons wins (intersection vs each
// side's intersection-plus-remainder). Word order and duplicates do not
// affect the score. Two empty strings score 100.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 100
	}

	var inter, onlyA, onlyB []string
	for _, t := range ta {
		if contains(tb, t) {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !contains(ta, t) {
			onlyB = append(onlyB, t)
		}
	}

	base := strings.Join(inter, " ")
	combA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := simRatio(base, combA)
	if r := simRatio(base, combB); r > best {
		best = r
	}
	if r := simRatio(combA, combB); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func contains(sorted []string, t string) bool {
	i := sort.SearchStrings(sorted, t)
	return i < len(sorted) && sorted[i] == t
}

// simRatio maps edit distance onto a 0..100 similarity score.
func simRatio(a, b string) int {
	if a == b {
		return 100
	}
	ar := []rune(a)
	br := []rune(b)
	longest := len(ar)
	if len(br) > longest {
		longest = len(br)
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein(ar, br)
	return int(100*(float64(longest)-float64(d))/float64(longest) + 0.5)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
