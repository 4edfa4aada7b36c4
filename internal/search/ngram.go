package search

import "strings"

// DefaultNgramSize is the gram length used by interactive filtering.
const DefaultNgramSize = 2

// MatchesFilter reports whether target passes the n-gram filter for the
// given filter text. Both strings are lowercased and whitespace-normalized
// before grams are taken. With matchAll every filter gram must occur in the
// target; otherwise one shared gram suffices.
//
// The gram size shrinks to the shorter of the two strings so very short
// inputs still produce grams. An empty filter matches everything; an empty
// target matches nothing.
func MatchesFilter(filter, target string, n int, matchAll bool) bool {
	filter = normalize(filter)
	target = normalize(target)
	if filter == "" {
		return true
	}
	if target == "" {
		return false
	}

	fr := []rune(filter)
	tr := []rune(target)
	if n > len(fr) {
		n = len(fr)
	}
	if n > len(tr) {
		n = len(tr)
	}
	if n < 1 {
		n = 1
	}

	targetGrams := ngramSet(tr, n)
	if matchAll {
		for g := range ngramSet(fr, n) {
			if _, ok := targetGrams[g]; !ok {
				return false
			}
		}
		return true
	}
	for g := range ngramSet(fr, n) {
		if _, ok := targetGrams[g]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func ngramSet(rs []rune, n int) map[string]struct{} {
	out := make(map[string]struct{}, len(rs))
	for i := 0; i+n <= len(rs); i++ {
		out[string(rs[i:i+n])] = struct{}{}
	}
	return out
}
