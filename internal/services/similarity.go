package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeName lower-cases s, strips accents and turns punctuation into spaces.
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
}

func tokenSet(s string) map[string]bool {
	words := strings.Fields(normalizeName(s))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func sortedJoin(set map[string]bool) string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

// tokenSetSimilarity compares two names as word sets, in [0, 1].
//
// The shared words are compared against each side's shared+remaining words,
// so a name fully contained in the other scores 1 regardless of word order,
// accents or punctuation.
func tokenSetSimilarity(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := make(map[string]bool)
	onlyA := make(map[string]bool)
	onlyB := make(map[string]bool)
	for w := range wordsA {
		if wordsB[w] {
			common[w] = true
		} else {
			onlyA[w] = true
		}
	}
	for w := range wordsB {
		if !wordsA[w] {
			onlyB[w] = true
		}
	}

	t0 := sortedJoin(common)
	t1 := strings.TrimSpace(t0 + " " + sortedJoin(onlyA))
	t2 := strings.TrimSpace(t0 + " " + sortedJoin(onlyB))

	best := ratio(t1, t2)
	if t0 != "" {
		best = max(best, ratio(t0, t1), ratio(t0, t2))
	}
	return best
}

func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.Similarity(a, b, nil)
}
