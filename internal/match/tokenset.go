// Package match ranks vocabulary entries by token-set textual similarity
// to a free-text query. It is used to narrow large vocabularies down to a
// short candidate list before asking a language model to pick from them.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Candidate is one scored vocabulary entry.
type Candidate struct {
	Value string
	Score float64 // 0-100, higher is more similar
}

// FilterCandidates scores every candidate against the query and returns
// the topN highest scoring values. Ties keep the original vocabulary
// order. The full list is returned when topN exceeds its length.
func FilterCandidates(query string, candidates []string, topN int) []string {
	scored := ScoreCandidates(query, candidates)
	if topN > len(scored) {
		topN = len(scored)
	}
	values := make([]string, 0, topN)
	for _, c := range scored[:topN] {
		values = append(values, c.Value)
	}
	return values
}

// ScoreCandidates scores every candidate against the query and returns
// all of them sorted by descending score.
func ScoreCandidates(query string, candidates []string) []Candidate {
	queryTokens := Tokenize(query)
	scored := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Candidate{
			Value: c,
			Score: tokenSetRatio(queryTokens, Tokenize(c)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TokenSetRatio computes the token-set similarity of two strings on a
// 0-100 scale. Both strings are tokenized, and similarity is the best
// edit-distance ratio among the joined token intersection and the two
// joined full token sets. Shared tokens dominate the score, so word
// order and repeated words do not matter.
func TokenSetRatio(a, b string) float64 {
	return tokenSetRatio(Tokenize(a), Tokenize(b))
}

func tokenSetRatio(aTokens, bTokens []string) float64 {
	if len(aTokens) == 0 || len(bTokens) == 0 {
		if len(aTokens) == len(bTokens) {
			return 100
		}
		return 0
	}

	aSet := toSet(aTokens)
	bSet := toSet(bTokens)

	var common, aOnly, bOnly []string
	for token := range aSet {
		if _, ok := bSet[token]; ok {
			common = append(common, token)
		} else {
			aOnly = append(aOnly, token)
		}
	}
	for token := range bSet {
		if _, ok := aSet[token]; !ok {
			bOnly = append(bOnly, token)
		}
	}
	sort.Strings(common)
	sort.Strings(aOnly)
	sort.Strings(bOnly)

	base := strings.Join(common, " ")
	full1 := joinParts(base, aOnly)
	full2 := joinParts(base, bOnly)

	score := ratio(base, full1)
	if s := ratio(base, full2); s > score {
		score = s
	}
	if s := ratio(full1, full2); s > score {
		score = s
	}
	return score
}

// ratio is the normalized edit-distance similarity of two strings on a
// 0-100 scale.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	aLen := len([]rune(a))
	bLen := len([]rune(b))
	maxLen := aLen
	if bLen > maxLen {
		maxLen = bLen
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(maxLen))
}

// Tokenize lowercases, strips accents, and splits on both non-alphanumeric
// runs and camelCase boundaries, returning the unique tokens. Vocabulary
// entries like "+DataScience (+DS)" become {data, science, ds}.
func Tokenize(s string) []string {
	s = foldAccents(s)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	prevLower := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			if unicode.IsUpper(r) && prevLower {
				flush()
			}
			current.WriteRune(unicode.ToLower(r))
			prevLower = unicode.IsLower(r)
		case unicode.IsDigit(r):
			current.WriteRune(r)
			prevLower = false
		default:
			flush()
			prevLower = false
		}
	}
	flush()

	return dedupe(tokens)
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return folded
}

func joinParts(base string, extra []string) string {
	if len(extra) == 0 {
		return base
	}
	rest := strings.Join(extra, " ")
	if base == "" {
		return rest
	}
	return base + " " + rest
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
